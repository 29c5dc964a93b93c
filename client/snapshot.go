package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"frontdesk/entity"
)

const SnapshotVersion = 1

// Snapshot is the persisted local state. Dates are written as RFC 3339
// UTC strings; older files with unix-millisecond numbers still load.
type Snapshot struct {
	Version      int                   `json:"version"`
	SavedAt      time.Time             `json:"savedAt"`
	Tables       []entity.Table        `json:"tables"`
	Guests       []entity.Guest        `json:"guests"`
	Reservations []entity.Reservation  `json:"reservations"`
	Waitlist     []entity.WaitingGuest `json:"waitlist"`
}

var dateKeys = map[string]bool{
	"savedAt":         true,
	"createdAt":       true,
	"updatedAt":       true,
	"visitDate":       true,
	"reservationDate": true,
}

func EncodeSnapshot(w io.Writer, snap *Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	tree, err := parseTree(raw)
	if err != nil {
		return err
	}
	if err := walkDates(tree, toUTCString); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tree)
}

func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	tree, err := parseTree(raw)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	if err := walkDates(tree, toUTCString); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	norm, err := json.Marshal(tree)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{}
	if err := json.Unmarshal(norm, snap); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	if snap.Version > SnapshotVersion {
		return nil, fmt.Errorf("snapshot: version %d is newer than supported %d", snap.Version, SnapshotVersion)
	}
	return snap, nil
}

// SaveSnapshot writes snap next to path and renames it into place.
func SaveSnapshot(path string, snap *Snapshot) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := EncodeSnapshot(tmp, snap); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeSnapshot(f)
}

func parseTree(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// walkDates rewrites every date-keyed value in place.
func walkDates(node any, fn func(any) (any, error)) error {
	switch n := node.(type) {
	case map[string]any:
		for k, v := range n {
			if dateKeys[k] && v != nil {
				nv, err := fn(v)
				if err != nil {
					return fmt.Errorf("%s: %w", k, err)
				}
				n[k] = nv
				continue
			}
			if err := walkDates(v, fn); err != nil {
				return err
			}
		}
	case []any:
		for _, v := range n {
			if err := walkDates(v, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// toUTCString accepts an RFC 3339 string or unix milliseconds.
func toUTCString(v any) (any, error) {
	var t time.Time
	switch x := v.(type) {
	case string:
		var err error
		if t, err = time.Parse(time.RFC3339Nano, x); err != nil {
			return nil, err
		}
	case json.Number:
		ms, err := x.Int64()
		if err != nil {
			return nil, fmt.Errorf("%q is not unix milliseconds", x)
		}
		t = time.UnixMilli(ms)
	default:
		return nil, fmt.Errorf("unexpected %T", v)
	}
	return t.UTC().Format(time.RFC3339Nano), nil
}
