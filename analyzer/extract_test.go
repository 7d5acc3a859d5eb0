package analyzer

import "testing"

func TestExtractJSONLDObject(t *testing.T) {
	page := `<html><head>
<script type="application/ld+json">{"@context":"https://schema.org","@type":"Organization","name":"Acme Corp"}</script>
</head><body></body></html>`

	data := ExtractStructuredData(page, "https://acme.example")

	if len(data[FormatJSONLD]) != 1 {
		t.Fatalf("json-ld schemas = %d, want 1", len(data[FormatJSONLD]))
	}
	schema := data[FormatJSONLD][0]
	if resolveSchemaType(schema) != "Organization" {
		t.Errorf("type = %q, want Organization", resolveSchemaType(schema))
	}
	if schema["name"] != "Acme Corp" {
		t.Errorf("name = %v, want Acme Corp", schema["name"])
	}
	if len(data[FormatMicrodata]) != 0 || len(data[FormatRDFa]) != 0 {
		t.Error("no microdata or RDFa expected")
	}
}

func TestExtractJSONLDArray(t *testing.T) {
	page := `<html><head>
<script type="application/ld+json">[
  {"@context":"https://schema.org","@type":"WebSite","name":"Acme","url":"https://acme.example"},
  {"@context":"https://schema.org","@type":"WebPage","name":"Home","url":"https://acme.example/"}
]</script>
</head><body></body></html>`

	data := ExtractStructuredData(page, "https://acme.example")

	if len(data[FormatJSONLD]) != 2 {
		t.Fatalf("json-ld schemas = %d, want 2", len(data[FormatJSONLD]))
	}
	if resolveSchemaType(data[FormatJSONLD][0]) != "WebSite" {
		t.Errorf("first type = %q, want WebSite", resolveSchemaType(data[FormatJSONLD][0]))
	}
	if resolveSchemaType(data[FormatJSONLD][1]) != "WebPage" {
		t.Errorf("second type = %q, want WebPage", resolveSchemaType(data[FormatJSONLD][1]))
	}
}

func TestExtractJSONLDInvalidSkipped(t *testing.T) {
	page := `<html><head>
<script type="application/ld+json">{not valid json</script>
<script type="application/ld+json">{"@type":"Person","name":"Ann"}</script>
</head><body></body></html>`

	data := ExtractStructuredData(page, "")

	if len(data[FormatJSONLD]) != 1 {
		t.Fatalf("json-ld schemas = %d, want 1 (invalid block skipped)", len(data[FormatJSONLD]))
	}
	if data[FormatJSONLD][0]["name"] != "Ann" {
		t.Errorf("surviving schema = %v", data[FormatJSONLD][0])
	}
}

func TestExtractMicrodata(t *testing.T) {
	page := `<html><body>
<div itemscope itemtype="https://schema.org/Product">
  <span itemprop="name">Widget</span>
  <meta itemprop="description" content="A fine widget">
  <a itemprop="url" href="/widget">Details</a>
</div>
</body></html>`

	data := ExtractStructuredData(page, "https://acme.example")

	if len(data[FormatMicrodata]) != 1 {
		t.Fatalf("microdata schemas = %d, want 1", len(data[FormatMicrodata]))
	}
	schema := data[FormatMicrodata][0]
	if schema["itemType"] != "Product" {
		t.Errorf("itemType = %v, want Product", schema["itemType"])
	}
	if schema["name"] != "Widget" {
		t.Errorf("name = %v, want Widget", schema["name"])
	}
	if schema["description"] != "A fine widget" {
		t.Errorf("description = %v, want content attribute value", schema["description"])
	}
	if schema["url"] != "https://acme.example/widget" {
		t.Errorf("url = %v, want resolved absolute URL", schema["url"])
	}
}

func TestExtractMicrodataNestedItem(t *testing.T) {
	page := `<html><body>
<div itemscope itemtype="https://schema.org/Review">
  <span itemprop="name">Great widget</span>
  <div itemprop="author" itemscope itemtype="https://schema.org/Person">
    <span itemprop="name">Ann</span>
  </div>
</div>
</body></html>`

	data := ExtractStructuredData(page, "")

	if len(data[FormatMicrodata]) != 1 {
		t.Fatalf("microdata schemas = %d, want 1 top-level item", len(data[FormatMicrodata]))
	}
	schema := data[FormatMicrodata][0]
	author, ok := schema["author"].(map[string]interface{})
	if !ok {
		t.Fatalf("author = %v, want a nested item", schema["author"])
	}
	if author["itemType"] != "Person" || author["name"] != "Ann" {
		t.Errorf("nested author = %v", author)
	}
	if schema["name"] != "Great widget" {
		t.Errorf("outer name = %v, nested props must not leak out", schema["name"])
	}
}

func TestExtractRDFa(t *testing.T) {
	page := `<html><body>
<div vocab="https://schema.org/" typeof="Person">
  <span property="name">Jo Smith</span>
  <a property="url" href="https://jo.example">Site</a>
</div>
</body></html>`

	data := ExtractStructuredData(page, "")

	if len(data[FormatRDFa]) != 1 {
		t.Fatalf("rdfa schemas = %d, want 1", len(data[FormatRDFa]))
	}
	schema := data[FormatRDFa][0]
	if schema["@type"] != "Person" {
		t.Errorf("@type = %v, want Person", schema["@type"])
	}
	if schema["name"] != "Jo Smith" {
		t.Errorf("name = %v, want Jo Smith", schema["name"])
	}
	if schema["url"] != "https://jo.example" {
		t.Errorf("url = %v", schema["url"])
	}
}

func TestExtractEmptyAndMalformedHTML(t *testing.T) {
	for _, content := range []string{"", "not html at all", "<div><span>"} {
		data := ExtractStructuredData(content, "")
		if data == nil {
			t.Fatalf("ExtractStructuredData(%q) returned nil", content)
		}
		for _, format := range []string{FormatJSONLD, FormatMicrodata, FormatRDFa} {
			if data[format] == nil {
				t.Errorf("%s slice should be initialized for %q", format, content)
			}
		}
	}
}

func TestTypeFromIRI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://schema.org/Product", "Product"},
		{"http://schema.org/Product/", "Product"},
		{"schema:Product", "Product"},
		{"Product", "Product"},
		{"https://schema.org/Product extra", "Product"},
	}
	for _, tt := range tests {
		if got := typeFromIRI(tt.in); got != tt.want {
			t.Errorf("typeFromIRI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
