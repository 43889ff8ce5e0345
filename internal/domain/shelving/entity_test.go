package shelving

import "testing"

func TestJoinNumbers(t *testing.T) {
	cases := []struct {
		name    string
		numbers []uint
		want    string
	}{
		{"空列表", nil, ""},
		{"单个编号", []uint{7}, "7"},
		{"多个编号", []uint{1, 2, 10}, "1, 2, 10"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := JoinNumbers(tc.numbers); got != tc.want {
				t.Errorf("JoinNumbers(%v) = %q, want %q", tc.numbers, got, tc.want)
			}
		})
	}
}
