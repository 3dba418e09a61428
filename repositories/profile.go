//go:generate go run go.uber.org/mock/mockgen -source=profile.go -destination=../mocks/mock_profile_repository.go -package=mocks
package repositories

import (
	"arena-lab/domain"
	"arena-lab/errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	profilePrefix = "profile:"
	// maxConflictRetries bounds how often a write is replayed after badger.ErrConflict.
	maxConflictRetries = 100
)

type IProfileRepository interface {
	GetProfile(name string) (domain.Profile, error)
	CreateProfile(name string) (domain.Profile, error)
	UpdateProfile(oldName, newName, color string, customization map[string]any) (domain.Profile, error)
	AddFriendRequest(from, to string) error
	AcceptFriendRequest(name, requester string) (domain.Profile, domain.Profile, error)
	RecordMatch(name string, kills, deaths int) error
	ListProfiles() ([]domain.Profile, error)
}

type ProfileRepository struct {
	db  *badger.DB
	log *slog.Logger
	now func() time.Time
}

func NewProfileRepository(db *badger.DB, log *slog.Logger) IProfileRepository {
	return &ProfileRepository{db: db, log: log, now: time.Now}
}

func profileKey(name string) []byte {
	return []byte(profilePrefix + name)
}

// GetProfile returns errors.ErrProfileNotFound for unknown names.
func (r *ProfileRepository) GetProfile(name string) (domain.Profile, error) {
	var p domain.Profile
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		p, err = getProfile(txn, name)
		return err
	})
	return p, err
}

// CreateProfile is idempotent: an existing profile is returned untouched.
func (r *ProfileRepository) CreateProfile(name string) (domain.Profile, error) {
	if name == "" {
		return domain.Profile{}, errors.ErrEmptyName
	}
	var p domain.Profile
	err := r.update(func(txn *badger.Txn) error {
		existing, err := getProfile(txn, name)
		if err == nil {
			p = existing
			return nil
		}
		if !errors.Is(err, errors.ErrProfileNotFound) {
			return err
		}
		p = domain.NewProfile(name, r.now().UTC())
		return putProfile(txn, p)
	})
	if err == nil {
		r.log.Debug("Profile ready", "username", name)
	}
	return p, err
}

// UpdateProfile renames and restyles a profile. An empty newName keeps the old one.
func (r *ProfileRepository) UpdateProfile(oldName, newName, color string, customization map[string]any) (domain.Profile, error) {
	if newName == "" {
		newName = oldName
	}
	var p domain.Profile
	err := r.update(func(txn *badger.Txn) error {
		current, err := getProfile(txn, oldName)
		if err != nil {
			return err
		}
		if newName != oldName {
			if _, err := getProfile(txn, newName); err == nil {
				return errors.ErrNameTaken
			} else if !errors.Is(err, errors.ErrProfileNotFound) {
				return err
			}
			if err := txn.Delete(profileKey(oldName)); err != nil {
				return err
			}
			current.Username = newName
		}
		if color != "" {
			current.Color = color
		}
		if customization != nil {
			current.Customization = customization
		}
		p = current
		return putProfile(txn, current)
	})
	return p, err
}

// AddFriendRequest queues from in the pending requests of to.
func (r *ProfileRepository) AddFriendRequest(from, to string) error {
	return r.update(func(txn *badger.Txn) error {
		target, err := getProfile(txn, to)
		if err != nil {
			return err
		}
		if lo.Contains(target.Friends, from) {
			return errors.ErrAlreadyFriends
		}
		if lo.Contains(target.Requests, from) {
			return errors.ErrAlreadyRequested
		}
		target.Requests = append(target.Requests, from)
		return putProfile(txn, target)
	})
}

// AcceptFriendRequest turns a pending request into a mutual friendship and
// returns both updated profiles.
func (r *ProfileRepository) AcceptFriendRequest(name, requester string) (domain.Profile, domain.Profile, error) {
	var mine, theirs domain.Profile
	err := r.update(func(txn *badger.Txn) error {
		var err error
		if mine, err = getProfile(txn, name); err != nil {
			return err
		}
		if !lo.Contains(mine.Requests, requester) {
			return errors.ErrNoPendingRequest
		}
		if theirs, err = getProfile(txn, requester); err != nil {
			return err
		}
		mine.Requests = lo.Without(mine.Requests, requester)
		theirs.Requests = lo.Without(theirs.Requests, name)
		mine.Friends = lo.Uniq(append(mine.Friends, requester))
		theirs.Friends = lo.Uniq(append(theirs.Friends, name))
		if err = putProfile(txn, mine); err != nil {
			return err
		}
		return putProfile(txn, theirs)
	})
	return mine, theirs, err
}

// RecordMatch adds kills and deaths to the lifetime stats of name.
func (r *ProfileRepository) RecordMatch(name string, kills, deaths int) error {
	return r.update(func(txn *badger.Txn) error {
		p, err := getProfile(txn, name)
		if err != nil {
			return err
		}
		p.Stats.Kills += kills
		p.Stats.Deaths += deaths
		return putProfile(txn, p)
	})
}

// ListProfiles scans every stored profile, ordered by key.
func (r *ProfileRepository) ListProfiles() ([]domain.Profile, error) {
	var res []domain.Profile
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(profilePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				p, err := DecodeProfile(val)
				if err != nil {
					return err
				}
				res = append(res, p)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return res, err
}

// update runs fn in a read-write transaction and replays it when a concurrent
// commit touched the same keys, so read-modify-write updates are never lost.
func (r *ProfileRepository) update(fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = r.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		r.log.Debug("Profile write conflict, retrying", "attempt", attempt+1)
	}
	return fmt.Errorf("profile write kept conflicting: %w", err)
}

func getProfile(txn *badger.Txn, name string) (domain.Profile, error) {
	item, err := txn.Get(profileKey(name))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Profile{}, errors.ErrProfileNotFound
	}
	if err != nil {
		return domain.Profile{}, err
	}
	var p domain.Profile
	err = item.Value(func(val []byte) error {
		p, err = DecodeProfile(val)
		return err
	})
	return p, err
}

func putProfile(txn *badger.Txn, p domain.Profile) error {
	data, err := EncodeProfile(p)
	if err != nil {
		return err
	}
	return txn.Set(profileKey(p.Username), data)
}

// EncodeProfile stores a profile as a protobuf Struct.
func EncodeProfile(p domain.Profile) ([]byte, error) {
	pb, err := toPb(p)
	if err != nil {
		return nil, fmt.Errorf("profile conversion failed: %w", err)
	}
	data, err := proto.Marshal(pb)
	if err != nil {
		return nil, fmt.Errorf("marshal failed: %w", err)
	}
	return data, nil
}

func DecodeProfile(data []byte) (domain.Profile, error) {
	var pb structpb.Struct
	if err := proto.Unmarshal(data, &pb); err != nil {
		return domain.Profile{}, fmt.Errorf("unmarshal failed: %w", err)
	}
	return fromPb(&pb), nil
}

func toPb(p domain.Profile) (*structpb.Struct, error) {
	fields := map[string]any{
		"username": p.Username,
		"friends":  lo.ToAnySlice(p.Friends),
		"requests": lo.ToAnySlice(p.Requests),
		"stats": map[string]any{
			"kills":  p.Stats.Kills,
			"deaths": p.Stats.Deaths,
		},
		"color":     p.Color,
		"createdAt": p.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if p.Customization != nil {
		fields["customization"] = p.Customization
	}
	return structpb.NewStruct(fields)
}

func fromPb(pb *structpb.Struct) domain.Profile {
	m := pb.AsMap()
	p := domain.Profile{
		Username: stringField(m, "username"),
		Friends:  stringsField(m, "friends"),
		Requests: stringsField(m, "requests"),
		Color:    stringField(m, "color"),
	}
	if stats, ok := m["stats"].(map[string]any); ok {
		p.Stats.Kills = intField(stats, "kills")
		p.Stats.Deaths = intField(stats, "deaths")
	}
	if custom, ok := m["customization"].(map[string]any); ok {
		p.Customization = custom
	}
	if at, err := time.Parse(time.RFC3339Nano, stringField(m, "createdAt")); err == nil {
		p.CreatedAt = at
	}
	return p
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func intField(m map[string]any, key string) int {
	f, _ := m[key].(float64)
	return int(f)
}

func stringsField(m map[string]any, key string) []string {
	raw, _ := m[key].([]any)
	return lo.FilterMap(raw, func(v any, _ int) (string, bool) {
		s, ok := v.(string)
		return s, ok
	})
}
