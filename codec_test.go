package sieve

import "testing"

func TestJSONCodec_Unmarshal(t *testing.T) {
	codec := JSONCodec{}

	data := []byte(`[{"id": "1", "name": "Amelia J.", "progress": "42", "color": "red"}]`)
	var records []Record

	if err := codec.Unmarshal(data, &records); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Name != "Amelia J." {
		t.Errorf("expected name 'Amelia J.', got %q", records[0].Name)
	}
	if records[0].Progress != "42" {
		t.Errorf("expected progress '42', got %q", records[0].Progress)
	}
}

func TestJSONCodec_UnmarshalInvalid(t *testing.T) {
	codec := JSONCodec{}

	var records []Record
	if err := codec.Unmarshal([]byte(`[{not valid json}]`), &records); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestJSONCodec_ContentType(t *testing.T) {
	if ct := (JSONCodec{}).ContentType(); ct != "application/json" {
		t.Errorf("expected 'application/json', got %q", ct)
	}
}

func TestYAMLCodec_Unmarshal(t *testing.T) {
	codec := YAMLCodec{}

	data := []byte(`
- id: "1"
  name: Jack T.
  progress: "80"
  color: blue
- id: "2"
  name: Olivia M.
  progress: "15"
  color: green
`)
	var records []Record

	if err := codec.Unmarshal(data, &records); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1].Color != "green" {
		t.Errorf("expected color 'green', got %q", records[1].Color)
	}
}

func TestYAMLCodec_UnmarshalInvalid(t *testing.T) {
	codec := YAMLCodec{}

	var records []Record
	if err := codec.Unmarshal([]byte("- id: [unclosed"), &records); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestYAMLCodec_ContentType(t *testing.T) {
	if ct := (YAMLCodec{}).ContentType(); ct != "application/x-yaml" {
		t.Errorf("expected 'application/x-yaml', got %q", ct)
	}
}

func TestHuJSONCodec_CommentsAndTrailingCommas(t *testing.T) {
	codec := HuJSONCodec{}

	data := []byte(`[
	// first record
	{"id": "7", "name": "Isla W.", "progress": "99", "color": "purple",},
]`)
	var records []Record

	if err := codec.Unmarshal(data, &records); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if len(records) != 1 || records[0].ID != "7" {
		t.Errorf("expected one record with id 7, got %+v", records)
	}
}

func TestHuJSONCodec_UnmarshalInvalid(t *testing.T) {
	var records []Record
	if err := (HuJSONCodec{}).Unmarshal([]byte(`[{"id": }]`), &records); err == nil {
		t.Error("expected error for invalid JWCC")
	}
}

func TestCodecFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"records.yaml", "application/x-yaml"},
		{"records.YML", "application/x-yaml"},
		{"records.jsonc", "application/jwcc"},
		{"records.hujson", "application/jwcc"},
		{"records.json", "application/json"},
		{"records", "application/json"},
	}

	for _, tt := range tests {
		if got := CodecFor(tt.path).ContentType(); got != tt.want {
			t.Errorf("CodecFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
