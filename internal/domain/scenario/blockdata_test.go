package scenario

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestBlockRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		wire string
	}{
		{
			name: "start",
			wire: `{"id":"a","type":"start","data":{"triggers":[{"type":"start","enabled":true,"data":{}},{"type":"key_word","enabled":true,"data":{"key_words":["hi","hello"]}}]}}`,
		},
		{
			name: "message",
			wire: `{"id":"b","type":"message","data":{"text":"<b>hey</b>","type":"media","attachments":[{"url":"https://cdn.example.com/x.png","filename":"x.png","content_type":"image/png","size":1024}]}}`,
		},
		{
			name: "menu",
			wire: `{"id":"c","type":"menu","data":{"text":"pick","buttons":[{"id":"k1","text":"One"}]}}`,
		},
		{
			name: "delay",
			wire: `{"id":"d","type":"delay","data":{"type":"duration","value":{"duration":"31","measurement":"days"}}}`,
		},
		{
			name: "input_data",
			wire: `{"id":"e","type":"input_data","data":{"text":"your email?","buttons":[{"id":"k2","text":"Back"}],"field_name":"Email","field_type":"email","variable_name":"email_1","validation_failed_text":"try again"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Block
			if err := json.Unmarshal([]byte(tt.wire), &b); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			out, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			if string(out) != tt.wire {
				t.Errorf("round trip mismatch:\n in: %s\nout: %s", tt.wire, out)
			}
		})
	}
}

func TestBlockUnmarshalUnknownType(t *testing.T) {
	var b Block
	err := json.Unmarshal([]byte(`{"id":"x","type":"teleport","data":{}}`), &b)
	if !errors.Is(err, ErrUnknownBlockType) {
		t.Fatalf("expected ErrUnknownBlockType, got %v", err)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := testDocument()
	raw, err := doc.Encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	loaded, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	again, err := loaded.Encode()
	if err != nil {
		t.Fatalf("re-encode failed: %v", err)
	}
	if string(raw) != string(again) {
		t.Errorf("document round trip unstable:\n a: %s\n b: %s", raw, again)
	}
}

func TestSourcePortsPerVariant(t *testing.T) {
	tests := []struct {
		name string
		data BlockData
		want []string
	}{
		{"start", StartData{}, []string{PortNext}},
		{"message", MessageData{}, []string{PortNext}},
		{"delay", DelayData{}, []string{PortNext}},
		{
			"menu",
			MenuData{Buttons: []Button{{ID: "p1"}, {ID: "p2"}}},
			[]string{"p1", "p2"},
		},
		{
			"input_data",
			InputData{Buttons: []Button{{ID: "p1"}}},
			[]string{"p1", PortCompleted},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.data.SourcePorts()
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}

	if ports := (StartData{}).TargetPorts(); len(ports) != 0 {
		t.Errorf("start block must have no inbound port, got %v", ports)
	}
}

func TestCloneIsDeep(t *testing.T) {
	doc := testDocument()
	clone := doc.Clone()

	menu := clone.Blocks[2].Data.(MenuData)
	menu.Buttons[0].Text = "mutated"

	orig := doc.Blocks[2].Data.(MenuData)
	if orig.Buttons[0].Text == "mutated" {
		t.Error("clone shares button slice with the original")
	}
}

func TestClonePreservesNilAndEmptySlices(t *testing.T) {
	start := StartData{}.Clone().(StartData)
	if start.Triggers != nil {
		t.Error("nil triggers became non-nil")
	}

	msg := MessageData{Attachments: []Attachment{}}.Clone().(MessageData)
	if msg.Attachments == nil {
		t.Error("empty attachments became nil")
	}

	doc := Document{Connections: []Connection{}}.Clone()
	if doc.Connections == nil {
		t.Error("empty connections became nil")
	}
	if doc.Blocks != nil || doc.Placements != nil {
		t.Error("nil slices became non-nil")
	}
}
