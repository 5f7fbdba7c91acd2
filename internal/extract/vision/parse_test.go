package vision

import "testing"

func TestRecoverJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "plain object",
			content: `{"page_type":"Bill Detail","bill_items":[]}`,
			want:    `{"page_type":"Bill Detail","bill_items":[]}`,
		},
		{
			name:    "json code fence",
			content: "```json\n{\"page_type\":\"Pharmacy\",\"bill_items\":[]}\n```",
			want:    `{"page_type":"Pharmacy","bill_items":[]}`,
		},
		{
			name:    "bare code fence",
			content: "```\n{\"a\":1}\n```",
			want:    `{"a":1}`,
		},
		{
			name:    "surrounding prose",
			content: "Here is the result:\n{\"a\":1}\nHope that helps!",
			want:    `{"a":1}`,
		},
		{
			name:    "nested braces keep outermost span",
			content: `noise {"a":{"b":2}} trailing`,
			want:    `{"a":{"b":2}}`,
		},
		{
			name:    "no object",
			content: "I could not read the page.",
			wantErr: true,
		},
		{
			name:    "reversed braces",
			content: "} nothing {",
			wantErr: true,
		},
		{
			name:    "empty",
			content: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RecoverJSONObject(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("RecoverJSONObject: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
