package packing

import (
	"reflect"
	"testing"
)

func TestGeneratePlan(t *testing.T) {
	tabak := Line{ProductName: "Tabak", Qty: 4, Kind: "Porselen"}
	bardak := Line{ProductName: "Bardak", Qty: 6, Kind: "Cam"}

	tests := []struct {
		name  string
		state State
		req   Request
		want  []Step
	}{
		{
			name:  "fresh box runs every step",
			state: State{},
			req:   Request{Lines: []Line{tabak, bardak}, PhotoURL: "p.jpg", Seal: true},
			want: []Step{
				{Kind: StepCreate},
				{Kind: StepAddLine, LineIndex: 0},
				{Kind: StepAddLine, LineIndex: 1},
				{Kind: StepSetPhoto},
				{Kind: StepSeal},
			},
		},
		{
			name:  "resume after first line persisted",
			state: State{Exists: true, Status: "draft", Lines: []Line{tabak}},
			req:   Request{Lines: []Line{tabak, bardak}, PhotoURL: "p.jpg", Seal: true},
			want: []Step{
				{Kind: StepAddLine, LineIndex: 1},
				{Kind: StepSetPhoto},
				{Kind: StepSeal},
			},
		},
		{
			name:  "duplicate requested lines are matched one for one",
			state: State{Exists: true, Status: "draft", Lines: []Line{tabak}},
			req:   Request{Lines: []Line{tabak, tabak}},
			want:  []Step{{Kind: StepAddLine, LineIndex: 1}},
		},
		{
			name:  "whitespace does not defeat matching",
			state: State{Exists: true, Status: "draft", Lines: []Line{{ProductName: "Tabak ", Qty: 4, Kind: " Porselen"}}},
			req:   Request{Lines: []Line{tabak}},
			want:  nil,
		},
		{
			name:  "photo already attached is skipped",
			state: State{Exists: true, Status: "draft", Lines: []Line{tabak}, PhotoURL: "p.jpg"},
			req:   Request{Lines: []Line{tabak}, PhotoURL: "p.jpg", Seal: true},
			want:  []Step{{Kind: StepSeal}},
		},
		{
			name:  "already sealed is complete",
			state: State{Exists: true, Status: "sealed", Lines: []Line{tabak}, PhotoURL: "p.jpg"},
			req:   Request{Lines: []Line{tabak}, PhotoURL: "p.jpg", Seal: true},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := GeneratePlan(tt.state, tt.req)
			if !reflect.DeepEqual(plan.Steps, tt.want) {
				t.Errorf("Steps = %+v, want %+v", plan.Steps, tt.want)
			}
			if plan.Empty() != (len(tt.want) == 0) {
				t.Errorf("Empty() = %v", plan.Empty())
			}
		})
	}
}
