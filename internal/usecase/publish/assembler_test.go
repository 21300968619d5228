package publish_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combined-feed/internal/domain/entity"
	"combined-feed/internal/usecase/publish"
)

type memWriter struct {
	feeds []entity.Feed
	err   error
}

func (m *memWriter) Write(_ context.Context, feed entity.Feed) error {
	if m.err != nil {
		return m.err
	}
	m.feeds = append(m.feeds, feed)
	return nil
}

func (m *memWriter) Path() string { return "mem://feed.xml" }

var channel = entity.Channel{
	Title:       "Combined",
	Link:        "https://example.local/combined",
	Description: "desc",
	Language:    "en",
}

func rec(title string, published time.Time, tags ...string) entity.Record {
	return entity.NewRecord(title, "https://a.example/"+title, published, "sum "+title, tags, "https://a.example/feed")
}

func TestAssemble_SortsNewestFirstStable(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	records := []entity.Record{rec("R1", t1), rec("R2", t2), rec("R3", t1)}

	feed := publish.NewAssembler(channel, &memWriter{}).Assemble(records)

	got := make([]string, len(feed.Items))
	for i, it := range feed.Items {
		got[i] = it.Title
	}
	assert.Equal(t, []string{"R2", "R1", "R3"}, got)
	assert.Equal(t, "R1", records[0].Title, "input must not be reordered")
}

func TestAssemble_ItemFields(t *testing.T) {
	published := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	feed := publish.NewAssembler(channel, &memWriter{}).Assemble([]entity.Record{rec("X", published, "btc", "etf")})

	require.Len(t, feed.Items, 1)
	item := feed.Items[0]
	assert.Equal(t, "X", item.Title)
	assert.Equal(t, "https://a.example/X", item.Link)
	assert.Equal(t, published, item.Published)
	assert.Equal(t, "sum X\n\nSource: https://a.example/feed", item.Description)
	assert.Equal(t, []string{"btc", "etf"}, item.Categories)
	assert.Equal(t, channel, feed.Channel)
}

func TestAssemble_Empty(t *testing.T) {
	feed := publish.NewAssembler(channel, &memWriter{}).Assemble(nil)

	assert.Equal(t, channel, feed.Channel)
	assert.Empty(t, feed.Items)
}

func TestPublish(t *testing.T) {
	w := &memWriter{}
	a := publish.NewAssembler(channel, w)

	require.NoError(t, a.Publish(context.Background(), []entity.Record{rec("A", time.Now())}))
	require.Len(t, w.feeds, 1)
	assert.Len(t, w.feeds[0].Items, 1)
}

func TestPublish_WriteError(t *testing.T) {
	boom := errors.New("disk full")
	a := publish.NewAssembler(channel, &memWriter{err: boom})

	err := a.Publish(context.Background(), nil)

	assert.ErrorIs(t, err, boom)
}
