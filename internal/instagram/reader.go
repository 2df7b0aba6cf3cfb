// Package instagram extracts connection records from Instagram data
// exports. Both export variants are supported: the JSON export
// (connections/followers_and_following/*.json) and the HTML export.
package instagram

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/bondery/bondery/internal/entities"
	"github.com/bondery/bondery/internal/importers"
)

// Strategy selects which relationship lists contribute to the import.
type Strategy string

const (
	StrategyCloseFriends          Strategy = "close_friends"
	StrategyFollowing             Strategy = "following"
	StrategyFollowers             Strategy = "followers"
	StrategyFollowingAndFollowers Strategy = "following_and_followers"
	StrategyMutualFollowing       Strategy = "mutual_following"
)

// ErrUnknownStrategy is returned for unrecognized strategy values.
var ErrUnknownStrategy = errors.New("unknown import strategy")

// ParseStrategy validates a strategy form value.
func ParseStrategy(value string) (Strategy, error) {
	switch Strategy(value) {
	case StrategyCloseFriends, StrategyFollowing, StrategyFollowers,
		StrategyFollowingAndFollowers, StrategyMutualFollowing:
		return Strategy(value), nil
	default:
		return "", ErrUnknownStrategy
	}
}

// Reader locates and parses the Instagram connections export.
type Reader struct {
	maxBytes int64
}

// NewReader creates a reader enforcing the given upload size ceiling.
func NewReader(maxBytes int64) *Reader {
	return &Reader{maxBytes: maxBytes}
}

// archive holds the relationship lists found across the uploaded files.
type archive struct {
	followers    []importers.RawConnectionRecord
	following    []importers.RawConnectionRecord
	closeFriends []importers.RawConnectionRecord

	hasFollowers    bool
	hasFollowing    bool
	hasCloseFriends bool
}

// Extract parses the uploaded files and applies the strategy:
// following_and_followers unions the two lists, mutual_following
// intersects them, close_friends reads only the close-friends export.
// The result is deduplicated by handle in encounter order.
func (r *Reader) Extract(files []importers.UploadedFile, strategy Strategy) ([]importers.RawConnectionRecord, error) {
	if len(files) == 0 {
		return nil, &importers.InvalidArchiveError{Reason: "no files uploaded"}
	}
	if r.maxBytes > 0 && importers.TotalSize(files) > r.maxBytes {
		return nil, &importers.PayloadTooLargeError{LimitBytes: r.maxBytes}
	}

	arch := &archive{}
	found := false
	for _, file := range files {
		ok, err := collectFile(arch, file)
		if err != nil {
			return nil, err
		}
		found = found || ok
	}
	if !found {
		return nil, &importers.InvalidArchiveError{Reason: "no followers, following or close friends export found in the upload"}
	}

	return apply(arch, strategy)
}

func apply(arch *archive, strategy Strategy) ([]importers.RawConnectionRecord, error) {
	switch strategy {
	case StrategyCloseFriends:
		if !arch.hasCloseFriends {
			return nil, &importers.InvalidArchiveError{Reason: "no close friends list found in the upload"}
		}
		return dedupe(arch.closeFriends), nil
	case StrategyFollowing:
		if !arch.hasFollowing {
			return nil, &importers.InvalidArchiveError{Reason: "no following list found in the upload"}
		}
		return dedupe(arch.following), nil
	case StrategyFollowers:
		if !arch.hasFollowers {
			return nil, &importers.InvalidArchiveError{Reason: "no followers list found in the upload"}
		}
		return dedupe(arch.followers), nil
	case StrategyFollowingAndFollowers:
		if !arch.hasFollowing && !arch.hasFollowers {
			return nil, &importers.InvalidArchiveError{Reason: "no following or followers list found in the upload"}
		}
		union := append(append([]importers.RawConnectionRecord{}, arch.following...), arch.followers...)
		return dedupe(union), nil
	case StrategyMutualFollowing:
		if !arch.hasFollowing || !arch.hasFollowers {
			return nil, &importers.InvalidArchiveError{Reason: "mutual following requires both the following and followers lists"}
		}
		followerSet := map[string]bool{}
		for _, record := range arch.followers {
			followerSet[importers.NormalizeHandle(record.Handle)] = true
		}
		var mutual []importers.RawConnectionRecord
		for _, record := range arch.following {
			if followerSet[importers.NormalizeHandle(record.Handle)] {
				mutual = append(mutual, record)
			}
		}
		return dedupe(mutual), nil
	default:
		return nil, ErrUnknownStrategy
	}
}

func dedupe(records []importers.RawConnectionRecord) []importers.RawConnectionRecord {
	seen := map[string]bool{}
	deduped := make([]importers.RawConnectionRecord, 0, len(records))
	for _, record := range records {
		key := importers.NormalizeHandle(record.Handle)
		if key != "" && seen[key] {
			continue
		}
		if key != "" {
			seen[key] = true
		}
		deduped = append(deduped, record)
	}
	return deduped
}

// collectFile routes a single uploaded file (or ZIP member) into the
// archive's lists. Returns whether anything recognizable was found.
func collectFile(arch *archive, file importers.UploadedFile) (bool, error) {
	name := strings.ToLower(file.Name)
	if strings.HasSuffix(name, ".zip") {
		reader, err := zip.NewReader(bytes.NewReader(file.Data), int64(len(file.Data)))
		if err != nil {
			return false, &importers.UnsupportedFormatError{Reason: "could not open ZIP archive"}
		}
		found := false
		for _, entry := range reader.File {
			rc, err := entry.Open()
			if err != nil {
				return false, &importers.UnsupportedFormatError{Reason: "could not read " + entry.Name + " from ZIP"}
			}
			data, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return false, &importers.UnsupportedFormatError{Reason: "could not read " + entry.Name + " from ZIP"}
			}
			ok, err := collectEntry(arch, entry.Name, data)
			if err != nil {
				return false, err
			}
			found = found || ok
		}
		return found, nil
	}
	return collectEntry(arch, file.Name, file.Data)
}

func collectEntry(arch *archive, name string, data []byte) (bool, error) {
	base := strings.ToLower(name)
	if idx := strings.LastIndexAny(base, "/\\"); idx >= 0 {
		base = base[idx+1:]
	}

	var list listKind
	switch {
	case strings.HasPrefix(base, "followers_") || base == "followers.json" || base == "followers.html":
		list = listFollowers
	case strings.HasPrefix(base, "following"):
		list = listFollowing
	case strings.HasPrefix(base, "close_friends"):
		list = listCloseFriends
	default:
		return false, nil
	}

	var records []importers.RawConnectionRecord
	var err error
	switch {
	case strings.HasSuffix(base, ".json"):
		records, err = parseJSONList(data, list)
	case strings.HasSuffix(base, ".html"):
		records, err = parseHTMLList(data)
	default:
		return false, nil
	}
	if err != nil {
		return false, err
	}

	switch list {
	case listFollowers:
		arch.followers = append(arch.followers, records...)
		arch.hasFollowers = true
	case listFollowing:
		arch.following = append(arch.following, records...)
		arch.hasFollowing = true
	case listCloseFriends:
		arch.closeFriends = append(arch.closeFriends, records...)
		arch.hasCloseFriends = true
	}
	return true, nil
}

type listKind int

const (
	listFollowers listKind = iota
	listFollowing
	listCloseFriends
)

// listEntry is the shape Instagram uses for every relationship list.
type listEntry struct {
	Title          string `json:"title"`
	StringListData []struct {
		Href      string `json:"href"`
		Value     string `json:"value"`
		Timestamp int64  `json:"timestamp"`
	} `json:"string_list_data"`
}

// JSON wrappers per list: followers files are a bare array, the others
// are keyed objects.
var listWrapperKeys = map[listKind]string{
	listFollowing:    "relationships_following",
	listCloseFriends: "relationships_close_friends",
}

func parseJSONList(data []byte, list listKind) ([]importers.RawConnectionRecord, error) {
	var entries []listEntry

	if key, wrapped := listWrapperKeys[list]; wrapped {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, &importers.UnsupportedFormatError{Reason: "malformed JSON export"}
		}
		raw, ok := wrapper[key]
		if !ok {
			return nil, &importers.UnsupportedFormatError{Reason: "missing " + key + " in JSON export"}
		}
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, &importers.UnsupportedFormatError{Reason: "malformed " + key + " in JSON export"}
		}
	} else {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, &importers.UnsupportedFormatError{Reason: "malformed JSON export"}
		}
	}

	records := make([]importers.RawConnectionRecord, 0, len(entries))
	for _, entry := range entries {
		if len(entry.StringListData) == 0 {
			continue
		}
		item := entry.StringListData[0]
		record := importers.RawConnectionRecord{
			Platform:    entities.PlatformInstagram,
			Handle:      item.Value,
			DisplayName: entry.Title,
			ProfileURL:  item.Href,
		}
		if item.Timestamp > 0 {
			at := time.Unix(item.Timestamp, 0).UTC()
			record.ConnectedAt = &at
			record.ConnectedOnRaw = at.Format("2006-01-02")
		}
		records = append(records, record)
	}
	return records, nil
}
