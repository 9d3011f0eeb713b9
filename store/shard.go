package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/vistamin/starchive/models"
	"github.com/vistamin/starchive/types"
)

const maxNameRunes = 50

// sanitizeName makes a display name safe for file systems on common
// platforms: the characters < > : " / \ | ? * and spaces become underscores
// and the result is capped at 50 runes.
func sanitizeName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*', ' ':
			return '_'
		}
		return r
	}, name)
	runes := []rune(cleaned)
	if len(runes) > maxNameRunes {
		runes = runes[:maxNameRunes]
	}
	return string(runes)
}

// shard locates one archive file inside the year/month layout.
type shard struct {
	Year     int
	Month    int
	FileName string
}

// MonthDir returns the zero-padded month directory name.
func (s shard) MonthDir() string {
	return fmt.Sprintf("%02d", s.Month)
}

// RelativePath returns year/month/file, the form stored in index entries.
func (s shard) RelativePath() string {
	return fmt.Sprintf("%d/%s/%s", s.Year, s.MonthDir(), s.FileName)
}

// resolveShard maps a record to its shard. The file name embeds the record
// id, so distinct ids never collide even with identical display names.
func resolveShard(record models.TaskRecord) (shard, error) {
	ts, err := time.Parse(time.RFC3339, record.Timestamp)
	if err != nil {
		return shard{}, types.NewHistoryError(types.ErrMalformedTimestamp,
			"cannot resolve shard for timestamp "+record.Timestamp, err)
	}
	return shard{
		Year:     ts.Year(),
		Month:    int(ts.Month()),
		FileName: fmt.Sprintf("%s_%s.json", sanitizeName(record.DisplayName()), record.ID),
	}, nil
}
