// Package csvw models CSV on the Web metadata documents
// (https://www.w3.org/TR/tabular-metadata/) as produced by the profiler.
package csvw

import (
	"time"
)

// Namespace is the CSVW context IRI.
const Namespace = "http://www.w3.org/ns/csvw"

// DateTimeLayout formats dc:created values.
const DateTimeLayout = "2006-01-02T15:04:05Z"

// Document is a CSVW table group description.
type Document struct {
	Context []any    `json:"@context"`
	Dialect Dialect  `json:"dialect"`
	Tables  []Table  `json:"tables"`
	Created *Created `json:"dc:created,omitempty"`
}

// Dialect describes how the tables are encoded.
type Dialect struct {
	Header   bool   `json:"header"`
	Encoding string `json:"encoding"`
}

// Table describes one tabular file.
type Table struct {
	URL         string `json:"url"`
	TableSchema Schema `json:"tableSchema"`
}

// Schema lists the columns of a table.
type Schema struct {
	Columns []Column `json:"columns"`
}

// Column describes one column of a table.
type Column struct {
	// Titles is the column name as it appears in the header row.
	Titles string `json:"titles"`
	// Title is the humanized display name.
	Title       string   `json:"dc:title"`
	Datatype    Datatype `json:"datatype"`
	PropertyURL string   `json:"propertyUrl,omitempty"`
	Comment     string   `json:"rdfs:comment,omitempty"`
}

// Created is a typed xsd:dateTime literal.
type Created struct {
	Value string `json:"@value"`
	Type  string `json:"@type"`
}

// NewDocument returns an empty document with the default context and dialect.
func NewDocument() *Document {
	return &Document{
		Context: []any{Namespace, map[string]string{"@language": "en"}},
		Dialect: Dialect{Header: true, Encoding: "utf-8"},
		Tables:  []Table{},
	}
}

// AddTable appends a table.
func (d *Document) AddTable(t Table) {
	d.Tables = append(d.Tables, t)
}

// Stamp sets dc:created to t in UTC.
func (d *Document) Stamp(t time.Time) {
	d.Created = &Created{
		Value: t.UTC().Format(DateTimeLayout),
		Type:  "xsd:dateTime",
	}
}
