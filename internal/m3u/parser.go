// Package m3u parses raw M3U/M3U8 playlist text into a flat ordered channel
// list plus the header attributes of the #EXTM3U line.
package m3u

import (
	"bufio"
	"errors"
	"regexp"
	"strings"

	"github.com/marcsigha/bbtv/internal/models"
)

// ErrInvalidFormat indicates the raw text is not an M3U playlist or contains
// no usable channel entries.
var ErrInvalidFormat = errors.New("invalid M3U format")

// IsInvalidFormat checks if the error is an invalid-format error.
func IsInvalidFormat(err error) bool {
	return errors.Is(err, ErrInvalidFormat)
}

// Playlist is the parse result: header attributes and channels in file order.
type Playlist struct {
	Header   map[string]string
	Channels []models.Channel
}

var (
	reTvgID     = regexp.MustCompile(`tvg-id="([^"]*)"`)
	reTvgName   = regexp.MustCompile(`tvg-name="([^"]*)"`)
	reTvgLogo   = regexp.MustCompile(`tvg-logo="([^"]*)"`)
	reGroup     = regexp.MustCompile(`group-title="([^"]*)"`)
	reCommaName = regexp.MustCompile(`,([^\n\r\t]*)$`)
	reAttr      = regexp.MustCompile(`([\w-]+)="([^"]*)"`)
)

// Parse parses raw playlist text. Text that carries neither an #EXTM3U
// header nor any #EXTINF line fails with ErrInvalidFormat; individual
// malformed entries are skipped rather than failing the whole parse.
func Parse(raw string) (*Playlist, error) {
	if !strings.Contains(raw, "#EXTM3U") && !strings.Contains(raw, "#EXTINF") {
		return nil, ErrInvalidFormat
	}

	playlist := &Playlist{Header: map[string]string{}}

	scanner := bufio.NewScanner(strings.NewReader(raw))
	// Some playlists carry very long EXTINF lines.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var extinf string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, "#EXTM3U"):
			playlist.Header = parseAttrs(line)
		case strings.HasPrefix(line, "#EXTINF"):
			// An EXTINF without a following URL is dropped when the next
			// one starts.
			extinf = line
		case line == "" || strings.HasPrefix(line, "#"):
			// Blank lines and directives we don't consume.
		default:
			// URL line.
			if extinf == "" {
				continue
			}
			if ch, ok := channelFromEXTINF(extinf, line); ok {
				playlist.Channels = append(playlist.Channels, ch)
			}
			extinf = ""
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(playlist.Channels) == 0 {
		return nil, ErrInvalidFormat
	}

	return playlist, nil
}

// channelFromEXTINF builds a channel from an EXTINF metadata line and its
// URL line. Entries without any resolvable name are skipped.
func channelFromEXTINF(extinf, streamURL string) (models.Channel, bool) {
	name := matchFirst(reTvgName, extinf)
	if name == "" {
		name = matchFirst(reCommaName, extinf)
	}
	if name == "" {
		name = matchFirst(reTvgID, extinf)
	}
	if name == "" {
		return models.Channel{}, false
	}

	return models.Channel{
		Name:       strings.TrimSpace(name),
		StreamURL:  streamURL,
		LogoURL:    matchFirst(reTvgLogo, extinf),
		GroupTitle: matchFirst(reGroup, extinf),
		TvgID:      matchFirst(reTvgID, extinf),
		Attrs:      parseAttrs(extinf),
	}, true
}

// parseAttrs extracts every key="value" pair from a directive line.
func parseAttrs(line string) map[string]string {
	attrs := map[string]string{}
	for _, m := range reAttr.FindAllStringSubmatch(line, -1) {
		attrs[m[1]] = m[2]
	}
	return attrs
}

func matchFirst(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
