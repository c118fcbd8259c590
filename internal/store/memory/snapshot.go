package memory

import (
	"encoding/json"
	"log"
	"os"

	"github.com/fish11112222/naha2/internal/domain"
)

// snapshot is the on-disk layout of the store. Map keys are serialized as
// decimal id strings and timestamps as RFC 3339 strings.
type snapshot struct {
	Users         map[int64]*domain.User    `json:"users"`
	Messages      map[int64]*domain.Message `json:"messages"`
	NextUserID    int64                     `json:"nextUserId"`
	NextMessageID int64                     `json:"nextMessageId"`
}

// load reads the snapshot file if it exists. Any read or parse failure is
// logged and the store starts empty.
func (s *Store) load() {
	data, err := os.ReadFile(s.dataFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("could not read data file %s: %v", s.dataFile, err)
		}
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Printf("could not parse data file %s: %v", s.dataFile, err)
		return
	}

	if snap.Users != nil {
		s.users = snap.Users
	}
	if snap.Messages != nil {
		s.messages = snap.Messages
	}
	if snap.NextUserID > 0 {
		s.nextUserID = snap.NextUserID
	}
	if snap.NextMessageID > 0 {
		s.nextMessageID = snap.NextMessageID
	}
	log.Printf("loaded %d users and %d messages from %s", len(s.users), len(s.messages), s.dataFile)
}

// persistLocked writes the current state through to the snapshot file.
// Callers must hold the write lock. Failures are logged and swallowed; the
// in-memory state remains authoritative.
func (s *Store) persistLocked() {
	snap := snapshot{
		Users:         s.users,
		Messages:      s.messages,
		NextUserID:    s.nextUserID,
		NextMessageID: s.nextMessageID,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		log.Printf("could not encode snapshot: %v", err)
		return
	}
	if err := os.WriteFile(s.dataFile, data, 0o644); err != nil {
		log.Printf("could not write data file %s: %v", s.dataFile, err)
	}
}
