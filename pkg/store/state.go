package store

import (
	"strconv"

	bolt "go.etcd.io/bbolt"

	"github.com/Gaelan/fish-shell/pkg/cli"
	"github.com/Gaelan/fish-shell/pkg/diag"
)

const bucketState = "state"

// Keys in the state bucket.
const (
	keyText            = "text"
	keyCursor          = "cursor"
	keySelectionActive = "selection-active"
	keySelectionFrom   = "selection-from"
	keySelectionTo     = "selection-to"
	keySearchMode      = "search-mode"
	keyPagerActive     = "pager-active"
	keyKilled          = "killed"
	keyTransient       = "transient"
	keyHasTransient    = "has-transient"
)

func init() {
	initDB["initialize state table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketState))
		return err
	}
}

// Load reads the saved state. It returns the zero Snapshot if nothing has been
// saved.
func (s *Store) Load() (cli.Snapshot, error) {
	var snap cli.Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketState))
		get := func(k string) string { return string(b.Get([]byte(k))) }
		st := &snap.State
		st.Buffer = cli.Buffer{Text: get(keyText), Cursor: unmarshalInt(b.Get([]byte(keyCursor)))}
		st.SelectionActive = get(keySelectionActive) == "true"
		st.Selection = diag.Ranging{
			From: unmarshalInt(b.Get([]byte(keySelectionFrom))),
			To:   unmarshalInt(b.Get([]byte(keySelectionTo)))}
		st.SearchMode = get(keySearchMode) == "true"
		st.PagerActive = get(keyPagerActive) == "true"
		st.Killed = get(keyKilled)
		if get(keyHasTransient) == "true" {
			snap.Transient, snap.HasTransient = get(keyTransient), true
		}
		return nil
	})
	return snap, err
}

// Save replaces the saved state.
func (s *Store) Save(snap cli.Snapshot) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketState))
		st := snap.State
		kvs := []struct {
			k string
			v []byte
		}{
			{keyText, []byte(st.Buffer.Text)},
			{keyCursor, marshalInt(st.Buffer.Cursor)},
			{keySelectionActive, marshalBool(st.SelectionActive)},
			{keySelectionFrom, marshalInt(st.Selection.From)},
			{keySelectionTo, marshalInt(st.Selection.To)},
			{keySearchMode, marshalBool(st.SearchMode)},
			{keyPagerActive, marshalBool(st.PagerActive)},
			{keyKilled, []byte(st.Killed)},
			{keyHasTransient, marshalBool(snap.HasTransient)},
			{keyTransient, []byte(snap.Transient)},
		}
		for _, kv := range kvs {
			if err := b.Put([]byte(kv.k), kv.v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Reset removes the saved state.
func (s *Store) Reset() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketState)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketState))
		return err
	})
}

func marshalInt(i int) []byte { return []byte(strconv.Itoa(i)) }

func unmarshalInt(data []byte) int {
	i, _ := strconv.Atoi(string(data))
	return i
}

func marshalBool(b bool) []byte { return []byte(strconv.FormatBool(b)) }
