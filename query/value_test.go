package query

import (
	"testing"

	"github.com/segmentio/encoding/json"
)

func TestValueOf(t *testing.T) {
	tests := []struct {
		name    string
		in      interface{}
		want    Value
		wantErr bool
	}{
		{"nil", nil, Null(), false},
		{"string", "cpsc", String("cpsc"), false},
		{"int32", int32(2015), Number(2015), false},
		{"int64", int64(-3), Number(-3), false},
		{"float32", float32(0.5), Number(0.5), false},
		{"json number", json.Number("97.25"), Number(97.25), false},
		{"bool unsupported", true, Null(), true},
		{"slice unsupported", []string{"a"}, Null(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValueOf(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValueOf() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValueOf() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestValueJSON(t *testing.T) {
	row := Row{"courses_avg": Number(85.5), "courses_dept": String("cpsc"), "x": Null()}
	data, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"courses_avg":85.5,"courses_dept":"cpsc","x":null}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var back Row
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back["courses_avg"] != Number(85.5) || back["courses_dept"] != String("cpsc") || !back["x"].IsNull() {
		t.Errorf("Unmarshal() = %v", back)
	}
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		a, b Value
		want int
	}{
		{Number(1), Number(2), -1},
		{Number(2), Number(2), 0},
		{String("b"), String("a"), 1},
		{Null(), Number(-100), -1},
		{Number(100), String(""), -1},
		{Null(), Null(), 0},
	}
	for _, tt := range tests {
		if got := compareValues(tt.a, tt.b); got != tt.want {
			t.Errorf("compareValues(%#v, %#v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
