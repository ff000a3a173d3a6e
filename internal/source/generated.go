package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
)

var generatedWords = strings.Fields(`
	anchor runway placeholder tombstone scroll viewport measure recycle
	lattice harbor copper meadow signal lantern orbit quiet river summit
	ember fathom glacier hollow kernel marble nectar pilot quartz saddle
	timber umbra velvet willow yonder zephyr amber basalt cinder delta
`)

var generatedEpoch = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

type GeneratedOptions struct {
	// Seed changes the generated content. The same seed always produces the
	// same entries.
	Seed string
	// Delay is added to every fetch, to make loading visible.
	Delay time.Duration
}

// Generated is an endless feed of synthetic entries with bodies of varying
// height.
type Generated struct {
	opts      GeneratedOptions
	namespace uuid.UUID
}

func NewGenerated(opts GeneratedOptions) *Generated {
	return &Generated{
		opts:      opts,
		namespace: uuid.NewSHA1(uuid.NameSpaceURL, []byte("tamarack:generated:"+opts.Seed)),
	}
}

func (g *Generated) Fetch(ctx context.Context, offset, count int) ([]Entry, error) {
	if g.opts.Delay > 0 {
		timer := time.NewTimer(g.opts.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, count)
	for i := offset; i < offset+count; i++ {
		entries = append(entries, g.entry(i))
	}
	return entries, nil
}

func (g *Generated) entry(i int) Entry {
	h := xxh3.HashString(g.opts.Seed + ":" + strconv.Itoa(i))
	lines := int(h%5) + 1
	words := 4 + int(h>>8%6)

	var body strings.Builder
	for l := range lines {
		if l > 0 {
			body.WriteByte('\n')
		}
		for w := range words {
			if w > 0 {
				body.WriteByte(' ')
			}
			k := (h >> (uint(l*words+w) % 48)) + uint64(l*31+w*7)
			body.WriteString(generatedWords[k%uint64(len(generatedWords))])
		}
	}

	return Entry{
		ID:    uuid.NewSHA1(g.namespace, []byte(strconv.Itoa(i))).String(),
		Title: fmt.Sprintf("Entry #%d", i+1),
		Body:  body.String(),
		Time:  generatedEpoch.Add(time.Duration(i) * time.Minute),
	}
}

func (g *Generated) Close() error {
	return nil
}
