// Package ontology loads OWL/RDF ontology documents and extracts the
// labelled classes and properties that are indexed for column matching.
package ontology

import (
	"sort"

	"github.com/c360studio/csvw-ontomap/vocabulary/owl"
)

// Kind distinguishes classes from properties.
type Kind string

// Concept kinds.
const (
	KindClass    Kind = "class"
	KindProperty Kind = "property"
)

// Concept is one labelled statement about a class or property. An entity
// with several labels, descriptions or comments yields several concepts
// sharing the same URI.
type Concept struct {
	URI   string
	Label string
	Kind  Kind
	// Predicate is the annotation property the label was taken from.
	Predicate string
	// Description is the first description of the entity, if any.
	Description string
	// Comment is the first comment of the entity, if any.
	Comment string
}

type annotation struct {
	predicate string
	text      string
}

type entity struct {
	iri          string
	kind         Kind
	labels       []annotation
	descriptions []annotation
	comments     []annotation
}

// Ontology is a parsed ontology document.
type Ontology struct {
	// URL is the location the ontology was loaded from.
	URL string
	// Format is the serialization that parsed successfully.
	Format Format
	// Triples is the number of statements in the document.
	Triples int

	entities map[string]*entity
	order    []string
}

func newOntology(url string) *Ontology {
	return &Ontology{
		URL:      url,
		entities: make(map[string]*entity),
	}
}

// declare records iri as an entity of kind. A class declaration wins over a
// property declaration for punned IRIs.
func (o *Ontology) declare(iri string, kind Kind) {
	e, ok := o.entities[iri]
	if !ok {
		o.entities[iri] = &entity{iri: iri, kind: kind}
		o.order = append(o.order, iri)
		return
	}
	if kind == KindClass {
		e.kind = KindClass
	}
}

func (o *Ontology) annotate(iri, predicate, text string) {
	e, ok := o.entities[iri]
	if !ok || text == "" {
		return
	}
	a := annotation{predicate: predicate, text: text}
	switch {
	case contains(owl.LabelPredicates, predicate):
		e.labels = append(e.labels, a)
	case contains(owl.DescriptionPredicates, predicate):
		e.descriptions = append(e.descriptions, a)
	case contains(owl.CommentPredicates, predicate):
		e.comments = append(e.comments, a)
	}
}

// Classes returns the distinct class IRIs, sorted.
func (o *Ontology) Classes() []string {
	return o.iris(KindClass)
}

// Properties returns the distinct property IRIs, sorted.
func (o *Ontology) Properties() []string {
	return o.iris(KindProperty)
}

// ConceptCount is the number of distinct class and property IRIs.
func (o *Ontology) ConceptCount() int {
	return len(o.entities)
}

func (o *Ontology) iris(kind Kind) []string {
	var out []string
	for iri, e := range o.entities {
		if e.kind == kind {
			out = append(out, iri)
		}
	}
	sort.Strings(out)
	return out
}

// Concepts returns one Concept per label, description and comment of every
// entity of the given kind. Entities appear in declaration order; within an
// entity labels come first, then descriptions, then comments.
func (o *Ontology) Concepts(kind Kind) []Concept {
	var out []Concept
	for _, iri := range o.order {
		e := o.entities[iri]
		if e.kind != kind {
			continue
		}
		var desc, comment string
		if len(e.descriptions) > 0 {
			desc = e.descriptions[0].text
		}
		if len(e.comments) > 0 {
			comment = e.comments[0].text
		}
		for _, group := range [][]annotation{e.labels, e.descriptions, e.comments} {
			for _, a := range group {
				out = append(out, Concept{
					URI:         e.iri,
					Label:       a.text,
					Kind:        e.kind,
					Predicate:   a.predicate,
					Description: desc,
					Comment:     comment,
				})
			}
		}
	}
	return out
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
