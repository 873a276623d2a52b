package util

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", CleanText("  a  b\n\tc "))
	assert.Equal(t, "", CleanText(" \n "))
}

func TestNormalizeLocation(t *testing.T) {
	assert.Equal(t, "New York, NY", NormalizeLocation("Location: New York,  NY, new york"))
	assert.Equal(t, "", NormalizeLocation("   "))
}

func TestJoinList(t *testing.T) {
	assert.Equal(t, "Boston, MA, Remote", JoinList([]string{" Boston, MA", "", "Remote "}))
	assert.Equal(t, "", JoinList(nil))
}

func TestInferWorkMode(t *testing.T) {
	assert.Equal(t, "Remote", InferWorkMode("Remote - US", "Engineer"))
	assert.Equal(t, "Hybrid", InferWorkMode("Boston", "Hybrid Analyst"))
	assert.Equal(t, "Onsite", InferWorkMode("On-site, Dallas", ""))
	assert.Equal(t, "", InferWorkMode("Dallas", "Engineer"))
}

func TestCleanJobURL(t *testing.T) {
	tbl := []struct{ in, want string }{
		{" HTTPS://ACME.wd5.myworkdayjobs.com/Careers/job/X_R1?utm_source=li&b=2&source=LinkedIn#apply",
			"https://acme.wd5.myworkdayjobs.com/Careers/job/X_R1?b=2"},
		{"https://acme.wd5.myworkdayjobs.com/en-US/Careers/job/Boston/Analyst_R-100",
			"https://acme.wd5.myworkdayjobs.com/en-US/Careers/job/Boston/Analyst_R-100"},
		{"/job/Boston/Analyst_R-100", "/job/Boston/Analyst_R-100"},
		{"", ""},
	}
	for _, tc := range tbl {
		assert.Equal(t, tc.want, CleanJobURL(tc.in), tc.in)
	}
}

func TestHTMLToText(t *testing.T) {
	assert.Equal(t, "Title Line one Line two Item", HTMLToText("<h2>Title</h2><p>Line&nbsp;one<br>Line two</p><ul><li>Item</li></ul><script>x()</script>"))
	assert.Equal(t, "plain text", HTMLToText("plain   text"))
	assert.Equal(t, "", HTMLToText(""))
}

func TestParsePostedAt(t *testing.T) {
	tt := ParsePostedAt("2026-10-02")
	require.NotNil(t, tt)
	assert.Equal(t, "2026-10-02", tt.Format(DateLayout))

	tt = ParsePostedAt("2026-10-02T10:00:00-05:00")
	require.NotNil(t, tt)
	assert.Equal(t, "2026-10-02", tt.Format(DateLayout))

	tt = ParsePostedAt("1760000000000")
	require.NotNil(t, tt)
	assert.Equal(t, int64(1760000000), tt.Unix())

	assert.Nil(t, ParsePostedAt("soon"))
	assert.Nil(t, ParsePostedAt(""))
}

func TestParsePostedOn(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	tbl := []struct{ in, want string }{
		{"Posted Today", "2026-10-19"},
		{"Posted Yesterday", "2026-10-18"},
		{"Posted 5 Days Ago", "2026-10-14"},
		{"posted 1 day ago", "2026-10-18"},
		{"Posted 30+ Days Ago", "2026-09-19"},
	}
	for _, tc := range tbl {
		got := ParsePostedOn(tc.in, now)
		require.NotNil(t, got, tc.in)
		assert.Equal(t, tc.want, got.Format(DateLayout), tc.in)
	}
	assert.Nil(t, ParsePostedOn("Posted a while back", now))
	assert.Nil(t, ParsePostedOn("", now))
}

func TestDelayLimiter(t *testing.T) {
	hl := NewDelayLimiter(50 * time.Millisecond)
	ctx := context.Background()
	st := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, hl.WaitURL(ctx, "https://acme.wd5.myworkdayjobs.com/x"))
	}
	assert.GreaterOrEqual(t, time.Since(st), 90*time.Millisecond, "first call is free, then one per delay")

	free := NewDelayLimiter(0)
	st = time.Now()
	for i := 0; i < 10; i++ {
		require.NoError(t, free.WaitURL(ctx, "::bad url"))
	}
	assert.Less(t, time.Since(st), 50*time.Millisecond)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, NewDelayLimiter(time.Hour).WaitURL(cctx, "https://x.example.com"))
}
