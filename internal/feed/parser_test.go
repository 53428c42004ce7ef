package feed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		p, err := DecodePayload([]byte(`[
			{"date":"2025-09-18","title":"A","media_type":"image","url":"https://img/a.jpg"},
			{"date":"2025-09-19","title":"B","media_type":"video","url":"https://v/b","thumbnail_url":"https://img/b.jpg"}
		]`))
		require.NoError(t, err)
		assert.Equal(t, ShapeList, p.Shape)

		records := p.Records()
		require.Len(t, records, 2)
		assert.Equal(t, "2025-09-18", records[0].Date)
		assert.Equal(t, MediaVideo, records[1].MediaType)
		assert.Equal(t, "https://img/b.jpg", records[1].ThumbnailURL)
	})

	t.Run("single object becomes one element", func(t *testing.T) {
		p, err := DecodePayload([]byte(`  {"date":"2025-09-20","title":"C","media_type":"image","url":"https://img/c.jpg"}`))
		require.NoError(t, err)
		assert.Equal(t, ShapeSingle, p.Shape)
		assert.Equal(t, "single", p.Shape.String())

		records := p.Records()
		require.Len(t, records, 1)
		assert.Equal(t, "C", records[0].Title)
	})

	t.Run("empty list", func(t *testing.T) {
		p, err := DecodePayload([]byte(`[]`))
		require.NoError(t, err)
		assert.NotNil(t, p.Records())
		assert.Empty(t, p.Records())
	})

	t.Run("optional fields absent", func(t *testing.T) {
		p, err := DecodePayload([]byte(`[{"date":"2025-09-20","title":"C","media_type":"image","url":"u"}]`))
		require.NoError(t, err)
		r := p.Records()[0]
		assert.Empty(t, r.Explanation)
		assert.Empty(t, r.Copyright)
		assert.Empty(t, r.HDURL)
	})

	for name, body := range map[string]string{
		"empty body":  "",
		"plain text":  "Service Unavailable",
		"broken json": `[{"date":`,
		"number":      "42",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePayload([]byte(body))
			require.Error(t, err)
			var de *DecodeError
			assert.True(t, errors.As(err, &de))
			assert.Equal(t, "decode", Kind(err))
		})
	}
}

func TestRSSDecoder_Decode(t *testing.T) {
	rss := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Astronomy Picture of the Day</title>
	<link>https://apod.nasa.gov/</link>
	<item>
		<title>Comet Over Mountains</title>
		<link>https://apod.nasa.gov/apod/ap250920.html</link>
		<description>&lt;img src="https://apod.nasa.gov/apod/calendar/S_250920.jpg"&gt; A comet rises.</description>
		<pubDate>Sat, 20 Sep 2025 04:00:00 GMT</pubDate>
	</item>
	<item>
		<title>Solar Flare Timelapse</title>
		<link>https://apod.nasa.gov/apod/ap250919.html</link>
		<description>A flare erupts.</description>
		<enclosure url="https://apod.nasa.gov/apod/image/flare.mp4" type="video/mp4" length="1024"/>
		<pubDate>Fri, 19 Sep 2025 04:00:00 GMT</pubDate>
	</item>
	<item>
		<title>Undated</title>
		<link>https://apod.nasa.gov/apod/undated.html</link>
		<description>No date here.</description>
	</item>
</channel>
</rss>`

	p, err := NewRSSDecoder().Decode([]byte(rss))
	require.NoError(t, err)
	assert.Equal(t, ShapeList, p.Shape)

	records := p.Records()
	require.Len(t, records, 2, "undated items are skipped")

	assert.Equal(t, "2025-09-19", records[0].Date, "records are ascending")
	assert.Equal(t, MediaVideo, records[0].MediaType)
	assert.Equal(t, "https://apod.nasa.gov/apod/image/flare.mp4", records[0].URL)

	assert.Equal(t, "2025-09-20", records[1].Date)
	assert.Equal(t, MediaImage, records[1].MediaType)
	assert.Equal(t, "https://apod.nasa.gov/apod/calendar/S_250920.jpg", records[1].URL)
	assert.Equal(t, "A comet rises.", records[1].Explanation)
}

func TestRSSDecoder_Malformed(t *testing.T) {
	_, err := NewRSSDecoder().Decode([]byte("this is not a feed"))
	require.Error(t, err)
	assert.Equal(t, "decode", Kind(err))
}

func TestJSONDecoder(t *testing.T) {
	p, err := JSONDecoder{}.Decode([]byte(`{"date":"2025-09-20","title":"C","media_type":"image","url":"u"}`))
	require.NoError(t, err)
	assert.Len(t, p.Records(), 1)
}
