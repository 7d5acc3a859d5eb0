package analyzer

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ExtractStructuredData pulls JSON-LD, microdata, and RDFa blocks out of
// raw HTML. Unparseable blocks are skipped silently; the caller always
// receives a usable (possibly empty) mapping. Relative URL property
// values are resolved against baseURL when one is supplied.
func ExtractStructuredData(htmlContent, baseURL string) ExtractedData {
	data := ExtractedData{
		FormatJSONLD:    {},
		FormatMicrodata: {},
		FormatRDFa:      {},
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return data
	}

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		data[FormatJSONLD] = append(data[FormatJSONLD], decodeJSONLD(s.Text())...)
	})

	base, _ := url.Parse(baseURL)
	ex := &extraction{base: base}
	if len(doc.Nodes) > 0 {
		root := doc.Nodes[0]
		ex.collectMicrodata(root, &data)
		ex.collectRDFa(root, &data)
	}

	return data
}

// decodeJSONLD accepts either a single object or a top-level array of
// objects, the two shapes seen in the wild.
func decodeJSONLD(text string) []RawSchema {
	raw := []byte(strings.TrimSpace(text))

	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return []RawSchema{RawSchema(obj)}
	}

	var list []map[string]interface{}
	if err := json.Unmarshal(raw, &list); err == nil {
		schemas := make([]RawSchema, 0, len(list))
		for _, item := range list {
			schemas = append(schemas, RawSchema(item))
		}
		return schemas
	}

	return nil
}

type extraction struct {
	base *url.URL
}

// collectMicrodata walks the node tree collecting top-level itemscope
// items. Nested itemscopes become nested property values, not separate
// top-level schemas.
func (ex *extraction) collectMicrodata(n *html.Node, data *ExtractedData) {
	if n.Type == html.ElementNode && hasAttr(n, "itemscope") {
		(*data)[FormatMicrodata] = append((*data)[FormatMicrodata], ex.microdataItem(n))
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		ex.collectMicrodata(c, data)
	}
}

func (ex *extraction) microdataItem(n *html.Node) RawSchema {
	schema := RawSchema{}
	if t := attrValue(n, "itemtype"); t != "" {
		schema["itemType"] = typeFromIRI(t)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		ex.collectItemprops(c, schema)
	}
	return schema
}

func (ex *extraction) collectItemprops(n *html.Node, schema RawSchema) {
	if n.Type == html.ElementNode {
		name := attrValue(n, "itemprop")
		if name != "" && hasAttr(n, "itemscope") {
			schema[name] = map[string]interface{}(ex.microdataItem(n))
			return
		}
		if name != "" {
			schema[name] = ex.propertyValue(n)
		}
		if hasAttr(n, "itemscope") {
			// an itemscope without itemprop starts an unrelated item
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		ex.collectItemprops(c, schema)
	}
}

// collectRDFa walks the node tree collecting elements that declare a
// typeof attribute, harvesting their property descendants.
func (ex *extraction) collectRDFa(n *html.Node, data *ExtractedData) {
	if n.Type == html.ElementNode {
		if t := attrValue(n, "typeof"); t != "" {
			schema := RawSchema{"@type": typeFromIRI(t)}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				ex.collectRDFaProps(c, schema)
			}
			(*data)[FormatRDFa] = append((*data)[FormatRDFa], schema)
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		ex.collectRDFa(c, data)
	}
}

func (ex *extraction) collectRDFaProps(n *html.Node, schema RawSchema) {
	if n.Type == html.ElementNode {
		if attrValue(n, "typeof") != "" {
			// nested entity, not a property of this one
			return
		}
		if name := attrValue(n, "property"); name != "" {
			schema[typeFromIRI(name)] = ex.propertyValue(n)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		ex.collectRDFaProps(c, schema)
	}
}

// propertyValue picks the value of a property element the way microdata
// defines it: content attribute for meta, URL attributes for links and
// media, datetime for time, text content otherwise.
func (ex *extraction) propertyValue(n *html.Node) string {
	if v := attrValue(n, "content"); v != "" {
		return v
	}
	switch n.Data {
	case "a", "link", "area":
		return ex.resolveURL(attrValue(n, "href"))
	case "img", "audio", "video", "source", "embed", "iframe":
		return ex.resolveURL(attrValue(n, "src"))
	case "time":
		if v := attrValue(n, "datetime"); v != "" {
			return v
		}
	}
	return strings.TrimSpace(nodeText(n))
}

func (ex *extraction) resolveURL(href string) string {
	if href == "" || ex.base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return ex.base.ResolveReference(ref).String()
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// typeFromIRI reduces a type IRI or prefixed name to its bare schema.org
// type name: "https://schema.org/Product" and "schema:Product" both
// become "Product". Plain names pass through unchanged.
func typeFromIRI(iri string) string {
	iri = strings.TrimSpace(iri)
	if i := strings.IndexAny(iri, " \t"); i >= 0 {
		iri = iri[:i]
	}
	iri = strings.TrimSuffix(iri, "/")
	if i := strings.LastIndex(iri, "/"); i >= 0 {
		iri = iri[i+1:]
	}
	if i := strings.LastIndex(iri, ":"); i >= 0 {
		iri = iri[i+1:]
	}
	return iri
}
