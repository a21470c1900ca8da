package variant

import "github.com/tsawler/debrief/normalize"

var presets = map[string]func() *Variant{
	"weekly":   Weekly,
	"festival": Festival,
	"sail":     Sail,
}

// Weekly is the weekly neighbourhood report: one document grouped by
// category, each observation headed by its date and shift.
func Weekly() *Variant {
	return &Variant{
		Name:        "weekly",
		Description: "Weekly debriefing summary per category",
		Categories: []string{
			"OVERLAST PERSONEN",
			"JEUGDOVERLAST",
			"AFVALPROBLEMATIEK",
			"parkeeroverlast",
			"taken en opvallendheden",
		},
		Labels: Labels{
			Date:  []string{"Datum dienst"},
			Shift: []string{"Soort dienst"},
		},
		DateFormat: normalize.Numeric,
		Layouts: []Layout{{
			Tag:      "week",
			Title:    "Debriefingoverzicht Week {week}",
			FileName: "Week_{week}_Debriefingsoverzicht.docx",
			Levels:   []Level{LevelCategory},
			Entry:    EntryDateShift,
		}},
	}
}

// Festival is the event report: category, then deployment area, with every
// observation headed by its shift.
func Festival() *Variant {
	return &Variant{
		Name:        "festival",
		Description: "Event debriefing per category and deployment area",
		Categories: []string{
			"Vrijhouden van calamiteitenroutes",
			"In- en uitstroom van publiek",
			"Illegale evenementen in de openbare ruimte",
			"In hoeverre vielen andere vormen van overlast op",
			"Sfeerbeeld op straat",
			"Beschrijf hoe het publiek reageerde op de aanwezigheid van en contacten met THOR:",
			"Was er sprake van agressie en geweld (fysiek en//of verbaal) tegen collega's van THOR?",
			"Had je voldoende capaciteit om in te zetten?",
		},
		Labels: Labels{
			Date:  []string{"Datum dienst"},
			Shift: []string{"Soort dienst"},
			Area:  []string{"Inzetgebied"},
		},
		Canonical:  []string{"S105"},
		DateFormat: normalize.Numeric,
		Layouts: []Layout{{
			Tag:      "area",
			Title:    "Debriefingsoverzicht Feest op de Ring {year}",
			FileName: "Debriefingsoverzicht_{year}.docx",
			Levels:   []Level{LevelCategory, LevelArea},
			Emphasis: true,
			Entry:    EntryShift,
		}},
	}
}

// Sail is the multi-day event report. Dates are usually entered through a
// date picker in worded form. Two documents are produced: one per date and
// area, one per date and category.
func Sail() *Variant {
	return &Variant{
		Name:        "sail",
		Description: "Multi-day event debriefing per date, area and category",
		Categories: []string{
			"Vrijhouden van calamiteitenroutes en vaarroutes",
			"Toezien op in- en uitstroom van het evenement",
			"Illegale evenementen in de openbare ruimte",
			"In hoeverre vielen andere vormen van overlast op?",
			"Sfeerbeeld op straat",
			"Beschrijf hoe het publiek reageerde op de aanwezigheid van en contacten met THOR:",
			"Was er sprake van agressie en geweld (fysiek en/of verbaal) tegen collega's van THOR?",
		},
		Labels: Labels{
			Date:  []string{"Datum dienst"},
			Shift: []string{"Soort dienst"},
			Area:  []string{"Inzetgebied", "tijden + sector"},
		},
		DatePicker: true,
		DateFormat: normalize.Auto,
		Layouts: []Layout{
			{
				Tag:        "area",
				Title:      "Debriefingsoverzicht SAIL {year}",
				FileName:   "Debriefingsoverzicht_{year}.docx",
				Levels:     []Level{LevelDate, LevelArea, LevelCategory},
				Emphasis:   true,
				AreaShift:  true,
				AreaPrefix: "📍 ",
				DatePrefix: "📅 ",
			},
			{
				Tag:        "category",
				Title:      "Debriefingsoverzicht SAIL {year} (per categorie)",
				FileName:   "Debriefingsoverzicht_{year}_per_categorie.docx",
				Levels:     []Level{LevelDate, LevelCategory, LevelArea},
				Emphasis:   true,
				AreaShift:  true,
				AreaPrefix: "📍 ",
				DatePrefix: "📅 ",
			},
		},
	}
}
