package score

import "testing"

func TestLevelForPoints(t *testing.T) {
	tests := []struct {
		points    int
		wantLevel int
		wantName  string
	}{
		{0, 1, "Novice"},
		{500, 1, "Novice"},
		{950, 1, "Novice"},
		{1050, 2, "Apprentice"},
		{2000, 3, "Expert"},
		{3500, 4, "Master"},
		{4000, 5, "Legend"},
		{12000, 13, "Legend"}, // name caps at the last entry, level keeps climbing
	}

	for _, tt := range tests {
		level, name := LevelForPoints(tt.points)
		if level != tt.wantLevel || name != tt.wantName {
			t.Errorf("LevelForPoints(%d) = (%d, %q), want (%d, %q)",
				tt.points, level, name, tt.wantLevel, tt.wantName)
		}
	}
}
