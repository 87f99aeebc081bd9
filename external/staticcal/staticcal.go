// Package staticcal carries hand-maintained event calendars for
// organizers whose sites are client-rendered SPAs or otherwise not
// worth scraping. Each seed list sits behind the same source contract
// as the live adapters; freshness is a content-maintenance concern, not
// something the pipeline can guarantee.
package staticcal

import (
	"context"

	"github.com/probegapp/probeg/internal/domain/calendar"
)

type seedEvent struct {
	name     string
	date     string
	location string
	url      string
}

// Source serves a fixed event list.
type Source struct {
	name      string
	organizer string
	raceType  string
	events    []seedEvent
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) FetchUpcoming(_ context.Context) ([]calendar.RawEvent, error) {
	events := make([]calendar.RawEvent, 0, len(s.events))
	for _, seed := range s.events {
		events = append(events, calendar.RawEvent{
			Name:       seed.name,
			Date:       seed.date,
			Location:   seed.location,
			Organizer:  s.organizer,
			RaceType:   s.raceType,
			WebsiteURL: seed.url,
		})
	}
	return events, nil
}

// Sources returns every seed calendar. The collector treats them
// exactly like the live adapters.
func Sources() []calendar.Source {
	return []calendar.Source{
		topliga(), dreamTrail(), openBand(), tulaMarathon(),
		wildTrail(), goldenUltra(), runc(),
	}
}

func topliga() *Source {
	return &Source{
		name:      "Высшая лига",
		organizer: "Высшая лига",
		events: []seedEvent{
			{"Новогодний забег", "2026-01-01", "Краснодар", "https://events.topliga.ru/"},
			{"Hard Run", "2026-02-22", "Краснодар", "https://events.topliga.ru/"},
			{"Beauty Run", "2026-03-08", "Краснодар", "https://events.topliga.ru/"},
			{"Сириус Автодром", "2026-04-05", "Сириус", "https://events.topliga.ru/"},
			{"Когалымский полумарафон", "2026-09-06", "Когалым", "https://events.topliga.ru/"},
			{"Донской марафон", "2026-09-27", "Ростов-на-Дону", "https://events.topliga.ru/"},
			{"Сочи Марафон", "2026-11-01", "Сочи", "https://events.topliga.ru/"},
		},
	}
}

func dreamTrail() *Source {
	return &Source{
		name:      "Dream Trail",
		organizer: "Dream Trail",
		raceType:  "трейл",
		events: []seedEvent{
			{"Dream Trail Khimki Forest", "2026-05-01", "Химки", "https://dtrail.ru/"},
			{"Dream Trail Lyskovo", "2026-06-27", "Лысково", "https://dtrail.ru/dtl_2026/"},
		},
	}
}

func openBand() *Source {
	return &Source{
		name:      "Open Band",
		organizer: "Open Band",
		raceType:  "трейл",
		events: []seedEvent{
			{"Open Band Trails — Буран", "2026-01-18", "Москва, Кузьминки", "https://openband.run/"},
			{"Open Band Trails — Мороз", "2026-02-22", "Октябрьский, МО", "https://openband.run/"},
			{"Open Band Trails — Лёд", "2026-03-15", "Пушкино, МО", "https://openband.run/"},
			{"Open Band Trails — Мгла", "2026-04-25", "Москва, Битца", "https://openband.run/"},
			{"Open Band Trails — Молния", "2026-07-19", "Беломестный, МО", "https://openband.run/"},
			{"Open Band Trails — Ливень", "2026-09-06", "Ильинское, МО", "https://openband.run/"},
			{"Open Band Trails — Туман", "2026-10-10", "Фрязино, МО", "https://openband.run/"},
			{"Open Band Trails — Буря", "2026-11-15", "Красногорск, МО", "https://openband.run/"},
		},
	}
}

func tulaMarathon() *Source {
	return &Source{
		name:      "Тульский марафон",
		organizer: "Тульский марафон",
		events: []seedEvent{
			{"Забег Первая дорожка", "2026-01-25", "Тула", "https://tulamarathon.org/"},
			{"Эстафета Весна", "2026-04-19", "Тула", "https://tulamarathon.org/"},
			{"ЗаБег.РФ Тула", "2026-05-24", "Тула", "https://tulamarathon.org/"},
			{"Забег Ночная Тула", "2026-07-18", "Тула", "https://tulamarathon.org/"},
			{"Полумарафон Тула", "2026-08-23", "Тула", "https://tulamarathon.org/"},
			{"Полумарафон Оружейная столица", "2026-09-13", "Тула", "https://armory.tulamarathon.org/"},
			{"Эстафета Осень", "2026-10-11", "Тула", "https://tulamarathon.org/"},
			{"Забег Дедов Морозов", "2026-12-20", "Тула", "https://tulamarathon.org/"},
		},
	}
}

func wildTrail() *Source {
	return &Source{
		name:      "Wild Trail",
		organizer: "Wild Trail",
		raceType:  "трейл",
		events: []seedEvent{
			{"Nikola-Lenivets Winter Wild Trail", "2026-02-14", "Никола-Ленивец", "https://wildtrail.ru/nlwwt"},
			{"Dagestan Wild Trail", "2026-04-10", "Дагестан", "https://wildtrail.ru/dwt"},
			{"Arkhyz Wild Trail", "2026-06-26", "Архыз", "https://wildtrail.ru/awt"},
			{"Sport-Marafon Fest", "2026-09-01", "Сочи", "https://sportmarafonfest.ru"},
			{"Rosa Wild Fest", "2026-09-04", "Сочи", "https://wildtrail.ru/rwt"},
			{"Огни Дербента", "2026-11-15", "Дербент", "https://lightsofderbent.ru"},
		},
	}
}

func goldenUltra() *Source {
	return &Source{
		name:      "RHR",
		organizer: "RHR",
		raceType:  "трейл",
		events: []seedEvent{
			{"Moscow Drift Cross", "2026-03-28", "Москва", "https://goldenultra.ru/"},
			{"RHR Plogging", "2026-04-01", "Москва", "https://goldenultra.ru/"},
			{"Kalmyk Camel Trophy", "2026-04-18", "Калмыкия", "https://goldenultra.ru/"},
			{"Crazy Owl 50", "2026-06-12", "Москва", "https://goldenultra.ru/"},
			{"Golden Ring Ultra Trail 100", "2026-07-24", "Золотое кольцо", "https://goldenultra.ru/"},
			{"Kodar Ridge Chara Sands", "2026-08-22", "Чара", "https://goldenultra.ru/"},
			{"White Bridge Ultra Gelendzhik", "2026-10-02", "Геленджик", "https://goldenultra.ru/"},
			{"Mad Fox Ultra", "2026-12-18", "Москва", "https://goldenultra.ru/"},
		},
	}
}

func runc() *Source {
	return &Source{
		name:      "Беговое сообщество",
		organizer: "Беговое сообщество",
		events: []seedEvent{
			{"Соревнования «Скорость»", "2026-02-21", "Москва", "https://speedrace.runc.run/"},
			{"Забег «Апрель»", "2026-04-05", "Москва", "https://aprilrun5km.runc.run/"},
			{"Московский полумарафон", "2026-04-26", "Москва", "https://moscowhalf.runc.run/"},
			{"Марафон «Белые ночи»", "2026-06-28", "Санкт-Петербург", "https://whitenightsmarathon.ru/"},
			{"Московский марафон", "2026-10-11", "Москва", "https://moscowmarathon.runc.run/"},
		},
	}
}
