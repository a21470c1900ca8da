package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/tsawler/debrief/aggregate"
	"github.com/tsawler/debrief/model"
	"github.com/tsawler/debrief/period"
	"github.com/tsawler/debrief/variant"
)

var week27 = period.Period{Week: 27, Year: 2025}

func build(v *variant.Variant, layout variant.Layout, obs []model.Observation) *aggregate.Tree {
	for i := range obs {
		obs[i].Seq = i
	}
	return aggregate.Build(obs, v.Categories, layout.Levels, v.DateFormat)
}

func TestRender_Weekly(t *testing.T) {
	v := variant.Weekly()
	layout := v.Layouts[0]
	obs := []model.Observation{
		{Category: "parkeeroverlast", Date: "05-07-2025", Shift: "Avonddienst", Text: "Auto op de stoep\n\n  Busje in de bocht  "},
		{Category: "JEUGDOVERLAST", Date: "04-07-2025", Shift: "Ochtenddienst", Text: "Groep bij school"},
		{Category: "JEUGDOVERLAST", Date: "", Shift: "", Text: "Zonder kop"},
	}

	got := Render(build(v, layout, obs), layout, week27, v.DateFormat)
	want := []model.Block{
		model.Title("Debriefingoverzicht Week 27"),
		model.Heading(1, "JEUGDOVERLAST"),
		model.Heading(3, UnknownDateLabel),
		model.Bullet("Zonder kop"),
		model.Heading(3, "04-07-2025 (Ochtenddienst)"),
		model.Bullet("Groep bij school"),
		model.Heading(1, "PARKEEROVERLAST"),
		model.Heading(3, "05-07-2025 (Avonddienst)"),
		model.Bullet("Auto op de stoep"),
		model.Bullet("Busje in de bocht"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_NoObservations(t *testing.T) {
	v := variant.Weekly()
	got := Render(build(v, v.Layouts[0], nil), v.Layouts[0], week27, v.DateFormat)
	want := []model.Block{model.Title("Debriefingoverzicht Week 27")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_Weekday(t *testing.T) {
	v := variant.Weekly()
	layout := v.Layouts[0]
	layout.Weekday = true
	obs := []model.Observation{
		{Category: "JEUGDOVERLAST", Date: "04-07-2025", Shift: "Avonddienst", Text: "a"},
		{Category: "JEUGDOVERLAST", Date: "kapot", Shift: "Avonddienst", Text: "b"},
	}
	got := Render(build(v, layout, obs), layout, week27, v.DateFormat)
	if got[2].Text != "kapot (Avonddienst)" {
		t.Errorf("unparseable date heading = %q", got[2].Text)
	}
	if got[4].Text != "Vrijdag 04-07-2025 (Avonddienst)" {
		t.Errorf("weekday heading = %q", got[4].Text)
	}
}

func TestRender_Festival(t *testing.T) {
	v := variant.Festival()
	layout := v.Layouts[0]
	cat := v.Categories[4] // Sfeerbeeld op straat
	obs := []model.Observation{
		{Category: cat, Date: "04-07-2025", Shift: "Avonddienst", Area: "S105", Text: "Gezellig"},
		{Category: cat, Date: "04-07-2025", Shift: "Ochtenddienst", Area: "S105", Text: "Rustig"},
		{Category: cat, Date: "04-07-2025", Shift: "", Area: "", Text: "Onbekend gebied"},
	}

	got := Render(build(v, layout, obs), layout, week27, v.DateFormat)
	want := []model.Block{
		model.Title("Debriefingsoverzicht Feest op de Ring 2025"),
		model.Heading(1, "SFEERBEELD OP STRAAT").Emphasize(model.ColorRed),
		model.Heading(2, "S105"),
		model.Paragraph("Ochtenddienst").Emphasize(model.ColorBlack),
		model.Bullet("Rustig"),
		model.Paragraph("Avonddienst").Emphasize(model.ColorBlack),
		model.Bullet("Gezellig"),
		model.Heading(2, UngroupedLabel),
		model.Bullet("Onbekend gebied"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_SailLayouts(t *testing.T) {
	v := variant.Sail()
	catA, catB := v.Categories[0], v.Categories[4]
	obs := func() []model.Observation {
		return []model.Observation{
			{Category: catB, Date: "Vrijdag 4 juli 2025", Shift: "Avonddienst", Area: "Oost", Text: "sfeer avond"},
			{Category: catA, Date: "Vrijdag 4 juli 2025", Shift: "Ochtenddienst", Area: "Oost", Text: "route vrij"},
			{Category: catA, Date: "", Shift: "Ochtenddienst", Area: "Oost", Text: "zonder datum"},
		}
	}

	t.Run("date > area > category", func(t *testing.T) {
		layout, _ := v.Layout("area")
		got := Render(build(v, layout, obs()), layout, week27, v.DateFormat)
		want := []model.Block{
			model.Title("Debriefingsoverzicht SAIL 2025"),
			model.Heading(1, "📅 Vrijdag 4 juli 2025"),
			model.Heading(2, "📍 Oost (Ochtenddienst)"),
			model.Heading(3, "VRIJHOUDEN VAN CALAMITEITENROUTES EN VAARROUTES").Emphasize(model.ColorRed),
			model.Bullet("route vrij"),
			model.Heading(3, "SFEERBEELD OP STRAAT").Emphasize(model.ColorRed),
			model.Bullet("sfeer avond"),
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Render() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("date > category > area", func(t *testing.T) {
		layout, _ := v.Layout("category")
		got := Render(build(v, layout, obs()), layout, week27, v.DateFormat)
		want := []model.Block{
			model.Title("Debriefingsoverzicht SAIL 2025 (per categorie)"),
			model.Heading(1, "📅 Vrijdag 4 juli 2025"),
			model.Heading(2, "VRIJHOUDEN VAN CALAMITEITENROUTES EN VAARROUTES").Emphasize(model.ColorRed),
			model.Heading(3, "📍 Oost (Ochtenddienst)"),
			model.Bullet("route vrij"),
			model.Heading(2, "SFEERBEELD OP STRAAT").Emphasize(model.ColorRed),
			model.Heading(3, "📍 Oost (Avonddienst)"),
			model.Bullet("sfeer avond"),
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Render() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestLines(t *testing.T) {
	got := Lines("  eerste \r\n\n tweede\n   \nderde")
	if diff := cmp.Diff([]string{"eerste", "tweede", "derde"}, got); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
	if Lines("   ") != nil {
		t.Error("Lines() of blank text should be nil")
	}
}

func TestWriteHTML(t *testing.T) {
	blocks := []model.Block{
		model.Title("Overzicht <week>"),
		model.Heading(1, "JEUGDOVERLAST").Emphasize(model.ColorRed),
		model.Bullet("een"),
		model.Bullet("twee & drie"),
		model.Paragraph("Avonddienst").Emphasize(model.ColorBlack),
		model.Bullet("vier"),
	}

	var buf bytes.Buffer
	if err := WriteHTML(&buf, blocks); err != nil {
		t.Fatalf("WriteHTML() error = %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("missing doctype: %q", out[:min(40, len(out))])
	}
	if !strings.Contains(out, "Overzicht &lt;week&gt;") {
		t.Error("title text should be escaped")
	}

	doc, err := html.Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}

	var lists, items int
	var h2 *html.Node
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "ul":
				lists++
			case "li":
				items++
			case "h2":
				h2 = n
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)

	if lists != 2 || items != 3 {
		t.Errorf("lists = %d, items = %d; want 2, 3", lists, items)
	}
	if h2 == nil {
		t.Fatal("heading level 1 should render as h2")
	}
	var style string
	for _, a := range h2.Attr {
		if a.Key == "style" {
			style = a.Val
		}
	}
	if style != "color:#FF0000;font-weight:bold" {
		t.Errorf("h2 style = %q", style)
	}
}

func TestHeadingTag(t *testing.T) {
	for level, want := range map[int]string{0: "h2", 1: "h2", 3: "h4", 9: "h6"} {
		if got := headingTag(level); got != want {
			t.Errorf("headingTag(%d) = %q, want %q", level, got, want)
		}
	}
}

func TestTerminal(t *testing.T) {
	blocks := []model.Block{
		model.Title("Debriefingoverzicht Week 27"),
		model.Heading(1, "JEUGDOVERLAST"),
		model.Heading(3, "04-07-2025 (Ochtenddienst)"),
		model.Bullet("Groep bij school"),
		{Kind: model.BlockUnknown, Text: "onzichtbaar"},
	}
	out := Terminal(blocks, 0)

	for _, want := range []string{"Debriefingoverzicht Week 27", "JEUGDOVERLAST", "04-07-2025 (Ochtenddienst)", "• Groep bij school"} {
		if !strings.Contains(out, want) {
			t.Errorf("Terminal() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "onzichtbaar") {
		t.Error("unknown blocks should be skipped")
	}
}
