// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestParseRegion(t *testing.T) {
	tests := []struct {
		region  string
		want    Interval
		wantErr bool
	}{
		{"chr1", Interval{"chr1", 1, PosTypeMax - 1, StrandUnknown}, false},
		{"chr1:+", Interval{"chr1", 1, PosTypeMax - 1, StrandPlus}, false},
		{"chr1:100", Interval{"chr1", 100, 100, StrandUnknown}, false},
		{"chr1:100-200", Interval{"chr1", 100, 200, StrandUnknown}, false},
		{"chr1:100-200:-", Interval{"chr1", 100, 200, StrandMinus}, false},
		{"chr1:100-99", Interval{"chr1", 100, 99, StrandUnknown}, false},
		{"chr1:100-98", Interval{}, true},
		{"chr1:0-10", Interval{}, true},
		{"chr1:0", Interval{}, true},
		{"chr1:a-10", Interval{}, true},
		{":1-10", Interval{}, true},
		{"", Interval{}, true},
	}
	for _, tt := range tests {
		got, err := ParseRegion(tt.region)
		if tt.wantErr {
			expect.NotNil(t, err, tt.region)
			continue
		}
		expect.NoError(t, err, tt.region)
		expect.EQ(t, got, tt.want)
		expect.NoError(t, got.Validate())
	}
}
