package memory

import (
	"github.com/probegapp/probeg/internal/domain/organizer"
)

// SeedOrganizers returns the organizers behind the recurring race
// series the collector recognizes. The canonical names must match the
// calendar organizer detection table.
func SeedOrganizers() []organizer.Organizer {
	return []organizer.Organizer{
		{ID: "org-5verst", Name: "5верст", WebsiteURL: "https://5verst.ru"},
		{ID: "org-s95", Name: "S95", WebsiteURL: "https://s95.ru"},
		{ID: "org-rhr", Name: "RHR", WebsiteURL: "https://runhide.ru"},
		{ID: "org-moscow-marathon", Name: "Московский марафон", WebsiteURL: "https://moscowmarathon.org"},
		{ID: "org-ironstar", Name: "IronStar", WebsiteURL: "https://iron-star.com"},
		{ID: "org-russiarunning", Name: "RussiaRunning", WebsiteURL: "https://russiarunning.com"},
		{ID: "org-myrace", Name: "MyRace", WebsiteURL: "https://myrace.info"},
		{ID: "org-timerman", Name: "TIMERMAN", WebsiteURL: "https://timerman.org"},
	}
}
