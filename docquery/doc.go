// Package docquery parses schema documents and evaluates path-style queries
// against them.
//
// A Document wraps one parsed file. Queries are XPath expressions evaluated
// either from the document root or relative to a previously returned node.
// Namespace prefixes are a property of the document: bind them once with
// Bind before querying a namespaced document.
//
//	doc, err := docquery.Parse("soc0/layout.xml")
//	if err != nil {
//	    return err
//	}
//	groups, err := doc.Query("/layout/group")
package docquery
