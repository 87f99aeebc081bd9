package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/probegapp/probeg/internal/domain/claim"
	qb "github.com/probegapp/probeg/internal/platform/querybuilder"
)

type ClaimRepository struct {
	db *sqlx.DB
}

func NewClaimRepository(db *sqlx.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// Create inserts a claim unless one already exists for the same
// (result, runner) pair; in that case the stored claim comes back with
// created=false.
func (r *ClaimRepository) Create(ctx context.Context, item claim.Claim) (claim.Claim, bool, error) {
	createdAt := item.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	model := claimInsertModel{
		PublicID:  item.ID,
		ResultID:  item.ResultID,
		RunnerID:  item.RunnerID,
		ChatID:    item.ChatID,
		Status:    item.Status,
		CreatedAt: createdAt,
	}

	query, args, err := qb.InsertModel("result_claims", model,
		`ON CONFLICT (result_public_id, runner_public_id) DO NOTHING RETURNING public_id`)
	if err != nil {
		return claim.Claim{}, false, fmt.Errorf("build insert claim query: %w", err)
	}

	var publicID string
	if err := r.db.GetContext(ctx, &publicID, query, args...); err != nil {
		if !isNotFound(err) {
			return claim.Claim{}, false, fmt.Errorf("insert claim: %w", err)
		}
		// Conflict: the pair is already claimed.
		existing, found, err := r.getByPair(ctx, item.ResultID, item.RunnerID)
		if err != nil {
			return claim.Claim{}, false, err
		}
		if !found {
			return claim.Claim{}, false, fmt.Errorf("claim for result %s vanished during insert", item.ResultID)
		}
		return existing, false, nil
	}

	item.ID = publicID
	item.CreatedAt = createdAt
	return item, true, nil
}

func (r *ClaimRepository) getByPair(ctx context.Context, resultID, runnerID string) (claim.Claim, bool, error) {
	query, args, err := qb.Select("*").From("result_claims").
		Where(
			qb.Eq("result_public_id", resultID),
			qb.Eq("runner_public_id", runnerID),
		).
		ToSQL()
	if err != nil {
		return claim.Claim{}, false, fmt.Errorf("build get claim by pair query: %w", err)
	}

	var row claimTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return claim.Claim{}, false, nil
		}
		return claim.Claim{}, false, fmt.Errorf("get claim by pair: %w", err)
	}

	return claimFromRow(row), true, nil
}

func (r *ClaimRepository) GetByID(ctx context.Context, claimID string) (claim.Claim, bool, error) {
	query, args, err := qb.Select("*").From("result_claims").
		Where(qb.Eq("public_id", claimID)).
		ToSQL()
	if err != nil {
		return claim.Claim{}, false, fmt.Errorf("build get claim by id query: %w", err)
	}

	var row claimTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return claim.Claim{}, false, nil
		}
		return claim.Claim{}, false, fmt.Errorf("get claim by id: %w", err)
	}

	return claimFromRow(row), true, nil
}

func (r *ClaimRepository) ListPending(ctx context.Context) ([]claim.Claim, error) {
	query, args, err := qb.Select("*").From("result_claims").
		Where(qb.EqLiteral("status", claim.StatusPending)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pending claims query: %w", err)
	}

	var rows []claimTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pending claims: %w", err)
	}

	out := make([]claim.Claim, 0, len(rows))
	for _, row := range rows {
		out = append(out, claimFromRow(row))
	}
	return out, nil
}

func (r *ClaimRepository) SetStatus(ctx context.Context, claimID, status, reviewedBy, comment string) error {
	query, args, err := qb.Update("result_claims").
		Set("status", status).
		Set("reviewed_by", optionalString(reviewedBy)).
		Set("comment", optionalString(comment)).
		SetExpr("reviewed_at", "NOW()").
		Where(qb.Eq("public_id", claimID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set claim status query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set claim status: %w", err)
	}
	return nil
}
