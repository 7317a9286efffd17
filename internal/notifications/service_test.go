package notifications

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/freshfind/storefront/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedDrainReturnsInOrderAndEmpties(t *testing.T) {
	feed := NewFeed(10, nil)
	ctx := context.Background()

	feed.Success(ctx, "Offer applied successfully!")
	feed.Error(ctx, "Failed to update cart.")
	feed.Info(ctx, "Product removed from wishlist.")

	assert.Len(t, feed.Pending(), 3)

	got := feed.Drain()
	require.Len(t, got, 3)
	assert.Equal(t, LevelSuccess, got[0].Level)
	assert.Equal(t, LevelError, got[1].Level)
	assert.Equal(t, "Product removed from wishlist.", got[2].Message)
	assert.NotEmpty(t, got[0].ID)
	assert.Empty(t, feed.Drain())
}

func TestFeedDropsOldestWhenFull(t *testing.T) {
	feed := NewFeed(3, nil)
	for i := 0; i < 5; i++ {
		feed.Info(context.Background(), fmt.Sprintf("msg-%d", i))
	}
	got := feed.Drain()
	require.Len(t, got, 3)
	assert.Equal(t, "msg-2", got[0].Message)
	assert.Equal(t, "msg-4", got[2].Message)
}

func TestFeedIgnoresEmptyMessages(t *testing.T) {
	feed := NewFeed(0, nil)
	feed.Error(context.Background(), "")
	assert.Empty(t, feed.Pending())
}

func TestFeedLogsEveryMessage(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf})
	feed := NewFeed(5, logg)

	feed.Error(context.Background(), "Please select an address.")

	out := buf.String()
	assert.True(t, strings.Contains(out, "Please select an address."), out)
	assert.True(t, strings.Contains(out, `"notification_level":"error"`), out)
}

func TestFeedConcurrentPushes(t *testing.T) {
	feed := NewFeed(1000, nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			feed.Success(context.Background(), fmt.Sprintf("n-%d", i))
		}(i)
	}
	wg.Wait()
	assert.Len(t, feed.Drain(), 20)
}
