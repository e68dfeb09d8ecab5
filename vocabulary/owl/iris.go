// Package owl holds the RDF, RDFS, OWL, SKOS and Dublin Core IRIs used to
// recognise classes, properties and their human-readable annotations in an
// ontology document.
package owl

import "github.com/c360studio/semstreams/vocabulary"

// Namespace prefixes.
const (
	RDFNamespace     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace    = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace     = "http://www.w3.org/2002/07/owl#"
	SKOSNamespace    = "http://www.w3.org/2004/02/skos/core#"
	DCTermsNamespace = "http://purl.org/dc/terms/"
	DCNamespace      = "http://purl.org/dc/elements/1.1/"
	XSDNamespace     = "http://www.w3.org/2001/XMLSchema#"
)

// RDFType is rdf:type.
const RDFType = RDFNamespace + "type"

// Class IRIs mark an entity as a class.
const (
	// OWLClass is owl:Class.
	OWLClass = OWLNamespace + "Class"

	// RDFSClass is rdfs:Class, used by lightweight RDFS vocabularies.
	RDFSClass = RDFSNamespace + "Class"
)

// Property type IRIs mark an entity as a property.
const (
	OWLObjectProperty     = OWLNamespace + "ObjectProperty"
	OWLDatatypeProperty   = OWLNamespace + "DatatypeProperty"
	OWLAnnotationProperty = OWLNamespace + "AnnotationProperty"
	RDFProperty           = RDFNamespace + "Property"
)

// Annotation predicates.
const (
	// RDFSLabel is rdfs:label.
	RDFSLabel = RDFSNamespace + "label"

	// RDFSComment is rdfs:comment.
	RDFSComment = RDFSNamespace + "comment"

	// SKOSDefinition is skos:definition.
	SKOSDefinition = SKOSNamespace + "definition"

	// DCTermsDescription is dcterms:description.
	DCTermsDescription = DCTermsNamespace + "description"

	// DCDescription is the Dublin Core 1.1 description element.
	DCDescription = DCNamespace + "description"
)

// ClassTypes are the rdf:type objects that make a subject a class.
var ClassTypes = []string{OWLClass, RDFSClass}

// PropertyTypes are the rdf:type objects that make a subject a property.
var PropertyTypes = []string{
	OWLObjectProperty,
	OWLDatatypeProperty,
	OWLAnnotationProperty,
	RDFProperty,
}

// LabelPredicates carry names of an entity.
var LabelPredicates = []string{RDFSLabel, vocabulary.SkosPrefLabel, vocabulary.SkosAltLabel, vocabulary.DcTitle}

// DescriptionPredicates carry definitions of an entity.
var DescriptionPredicates = []string{DCTermsDescription, DCDescription, SKOSDefinition}

// CommentPredicates carry free-form remarks on an entity.
var CommentPredicates = []string{RDFSComment}

// IsClassType reports whether iri is one of ClassTypes.
func IsClassType(iri string) bool {
	return contains(ClassTypes, iri)
}

// IsPropertyType reports whether iri is one of PropertyTypes.
func IsPropertyType(iri string) bool {
	return contains(PropertyTypes, iri)
}

func contains(set []string, iri string) bool {
	for _, s := range set {
		if s == iri {
			return true
		}
	}
	return false
}
