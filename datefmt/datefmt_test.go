package datefmt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	testCases := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2021, time.March, 15, 19, 25, 28, 0, time.UTC), "15 mar 2021"},
		{time.Date(2021, time.February, 1, 0, 0, 0, 0, time.UTC), "01 fev 2021"},
		{time.Date(2020, time.December, 31, 23, 0, 0, 0, time.UTC), "31 dez 2020"},
	}
	for _, testCase := range testCases {
		in := testCase.in
		assert.Equal(t, testCase.want, strings.ToLower(Format(&in)))
	}
}

func TestFormatMissing(t *testing.T) {
	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "", Format(&time.Time{}))
}
