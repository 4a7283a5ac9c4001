// Package inspire provides a data source client for INSPIRE-HEP.
//
// Authors are identified by their INSPIRE record number (e.g. "1006450").
// Two endpoints are used:
//
//	GET {base}/authors/{id}
//	    → metadata.name.preferred_name (fallback: metadata.name.value)
//
//	GET {base}/literature?q=de >= {since} and authors.record.$ref:"{base}/authors/{id}"
//	    → hits.hits[].metadata.authors[].record.$ref, paginated via links.next
//
// Co-author weights count shared records. Records with more authors than the
// degree cap are skipped: large collaborations would otherwise connect every
// member to every other one.
//
// The client waits [httputil.DefaultInterval] before each request, the
// request floor INSPIRE asks of API users.
//
// [httputil.DefaultInterval]: github.com/matzehuels/authorsphere/pkg/httputil.DefaultInterval
package inspire
