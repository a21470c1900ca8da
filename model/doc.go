// Package model provides the intermediate representation shared by the
// extraction, aggregation and rendering stages.
//
// # Source documents
//
// A [SourceDocument] is the table view of one uploaded shift report: an
// ordered list of [Table] values, each an ordered list of [Row] values holding
// plain cell texts. Date-picker content controls found anywhere in the
// document are kept separately in [SourceDocument.DatePickers].
//
//	doc := model.NewSourceDocument("maandag.docx")
//	doc.AddTable(model.NewTable(
//	    model.NewRow("Datum dienst", "04-07-2025"),
//	    model.NewRow("Soort dienst", "Ochtenddienst"),
//	))
//
// # Observations
//
// Extraction produces [HeaderFields] once per document and zero or more
// [Observation] values per document. Observations are immutable after
// creation and always carry non-empty text.
//
// # Blocks
//
// Rendering produces a flat, ordered list of [Block] values (title, heading,
// paragraph, bullet) that the docx writer and the preview renderers consume.
package model
