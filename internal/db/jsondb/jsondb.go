// Package jsondb provides a JSON-file-backed implementation of the storage
// contract. All collections live in an in-memory cache guarded by a mutex;
// the cache is flushed to the file on Close. A freshly created database is
// seeded with the default accounts and reference data.
package jsondb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/docreg/internal/models"
)

// JSONDB is the file-backed register store.
type JSONDB struct {
	fileName string
	mu       sync.RWMutex
	Cache    CacheStruct
}

// CacheStruct is the serialized layout of the database file.
type CacheStruct struct {
	Users          []models.User
	Offices        []models.Office
	Modes          []models.Mode
	Entities       []models.Entity
	Couriers       []models.Courier
	InwardEntries  []models.InwardEntry
	OutwardEntries []models.OutwardEntry
	Sequences      map[string]int
}

// DefaultCache returns a cache seeded with the two login accounts and the
// initial reference data the register starts with.
func DefaultCache() CacheStruct {
	return CacheStruct{
		Users: []models.User{
			{ID: "1", Username: "admin", Name: "System Administrator", Role: models.RoleAdmin},
			{ID: "2", Username: "operator", Name: "Front Desk Operator", Role: models.RoleOperator},
		},
		Offices: []models.Office{
			{ID: "1", Name: "Main Office", IsActive: true, Institute: "SIT", Department: "Admin", OpeningInwardNo: 1, OpeningOutwardNo: 1, Remarks: "Headquarters"},
			{ID: "2", Name: "Registrar Office", IsActive: true, Institute: "SIT", Department: "Registrar", OpeningInwardNo: 100, OpeningOutwardNo: 50},
		},
		Modes: []models.Mode{
			{ID: "1", Name: "By Hand", IsActive: true},
			{ID: "2", Name: "Courier", IsActive: true},
			{ID: "3", Name: "Post", IsActive: true},
			{ID: "4", Name: "Email", IsActive: true},
		},
		Entities: []models.Entity{
			{ID: "1", Name: "Dell India", PersonName: "Rahul Kumar", Address: "Cyber City", Place: "Gurgaon", IsActive: true},
			{ID: "2", Name: "University Grants Commission", PersonName: "Secretary", Address: "Bahadur Shah Zafar Marg", Place: "New Delhi", IsActive: true},
		},
		Couriers: []models.Courier{
			{ID: "1", Name: "Blue Dart", IsActive: true, ContactPerson: "Manager", Phone: "1860-233-1234", Email: "support@bluedart.com", Website: "www.bluedart.com", Address: "Mumbai Hub"},
			{ID: "2", Name: "DTDC", IsActive: true, ContactPerson: "Local Agent", Phone: "022-22223333", Email: "service@dtdc.com", Website: "www.dtdc.com", Address: "Pune Branch"},
		},
		InwardEntries:  []models.InwardEntry{},
		OutwardEntries: []models.OutwardEntry{},
		Sequences:      map[string]int{},
	}
}

func writeToJSONFile(fileName string, cache interface{}) error {
	jsonData, err := json.MarshalIndent(cache, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %s", err)
	}

	file, err2 := os.OpenFile(fileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err2 != nil {
		return fmt.Errorf("error opening file: %s", err2)
	}
	defer file.Close()

	_, err = file.Write(jsonData)
	if err != nil {
		return fmt.Errorf("error writing to file: %s", err)
	}

	return nil
}

func parseJSONFile(fileName string, cacheMap *CacheStruct) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	err = decoder.Decode(cacheMap)
	if err != nil {
		return err
	}

	return nil
}

// New opens the database file, creating and seeding it when absent.
func New(fileName string) (*JSONDB, error) {
	theDB := JSONDB{
		fileName: fileName,
		Cache:    CacheStruct{},
	}

	err := parseJSONFile(theDB.fileName, &theDB.Cache)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		err = writeToJSONFile(fileName, DefaultCache())
		if err != nil {
			return nil, err
		}
		err = parseJSONFile(theDB.fileName, &theDB.Cache)
		if err != nil {
			return nil, err
		}
	}
	if theDB.Cache.Sequences == nil {
		theDB.Cache.Sequences = map[string]int{}
	}

	return &theDB, nil
}

// Close flushes the cache back to the database file.
func (db *JSONDB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	return writeToJSONFile(db.fileName, db.Cache)
}

// Ping always succeeds for the file-backed store.
func (db *JSONDB) Ping(ctx context.Context) error {
	return nil
}

// GetUserByUsername resolves an account by case-insensitive username match.
func (db *JSONDB) GetUserByUsername(ctx context.Context, username string) (*models.User, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, usr := range db.Cache.Users {
		if strings.EqualFold(usr.Username, username) {
			found := usr
			return &found, true, nil
		}
	}

	return nil, false, nil
}

// CreateUser stores a new account and returns its assigned identifier.
func (db *JSONDB) CreateUser(ctx context.Context, usr *models.User) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}
	db.Cache.Users = append(db.Cache.Users, *usr)

	return usr.ID, nil
}

// ListOffices returns a snapshot copy of the offices collection.
func (db *JSONDB) ListOffices(ctx context.Context) ([]models.Office, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return append([]models.Office{}, db.Cache.Offices...), nil
}

// CreateOffice appends an office under a fresh identifier.
func (db *JSONDB) CreateOffice(ctx context.Context, office models.Office) (models.Office, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	office.ID = uuid.New().String()
	db.Cache.Offices = append(db.Cache.Offices, office)

	return office, nil
}

// UpdateOffice merges the patch into the office matching id.
func (db *JSONDB) UpdateOffice(ctx context.Context, id string, patch models.OfficePatch) (models.Office, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.Cache.Offices {
		if db.Cache.Offices[i].ID != id {
			continue
		}
		office := &db.Cache.Offices[i]
		if patch.Name != nil {
			office.Name = *patch.Name
		}
		if patch.IsActive != nil {
			office.IsActive = *patch.IsActive
		}
		if patch.Remarks != nil {
			office.Remarks = *patch.Remarks
		}
		if patch.Institute != nil {
			office.Institute = *patch.Institute
		}
		if patch.Department != nil {
			office.Department = *patch.Department
		}
		if patch.OpeningInwardNo != nil {
			office.OpeningInwardNo = *patch.OpeningInwardNo
		}
		if patch.OpeningOutwardNo != nil {
			office.OpeningOutwardNo = *patch.OpeningOutwardNo
		}

		return *office, true, nil
	}

	return models.Office{}, false, nil
}

// DeleteOffice removes the office matching id.
func (db *JSONDB) DeleteOffice(ctx context.Context, id string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	before := len(db.Cache.Offices)
	db.Cache.Offices = funk.Filter(db.Cache.Offices, func(office models.Office) bool {
		return office.ID != id
	}).([]models.Office)

	return len(db.Cache.Offices) != before, nil
}

// ListModes returns a snapshot copy of the modes collection.
func (db *JSONDB) ListModes(ctx context.Context) ([]models.Mode, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return append([]models.Mode{}, db.Cache.Modes...), nil
}

// CreateMode appends a mode under a fresh identifier.
func (db *JSONDB) CreateMode(ctx context.Context, mode models.Mode) (models.Mode, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	mode.ID = uuid.New().String()
	db.Cache.Modes = append(db.Cache.Modes, mode)

	return mode, nil
}

// UpdateMode merges the patch into the mode matching id.
func (db *JSONDB) UpdateMode(ctx context.Context, id string, patch models.ModePatch) (models.Mode, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.Cache.Modes {
		if db.Cache.Modes[i].ID != id {
			continue
		}
		mode := &db.Cache.Modes[i]
		if patch.Name != nil {
			mode.Name = *patch.Name
		}
		if patch.IsActive != nil {
			mode.IsActive = *patch.IsActive
		}
		if patch.Remarks != nil {
			mode.Remarks = *patch.Remarks
		}

		return *mode, true, nil
	}

	return models.Mode{}, false, nil
}

// DeleteMode removes the mode matching id.
func (db *JSONDB) DeleteMode(ctx context.Context, id string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	before := len(db.Cache.Modes)
	db.Cache.Modes = funk.Filter(db.Cache.Modes, func(mode models.Mode) bool {
		return mode.ID != id
	}).([]models.Mode)

	return len(db.Cache.Modes) != before, nil
}

// ListEntities returns a snapshot copy of the entities collection.
func (db *JSONDB) ListEntities(ctx context.Context) ([]models.Entity, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return append([]models.Entity{}, db.Cache.Entities...), nil
}

// CreateEntity appends an entity under a fresh identifier.
func (db *JSONDB) CreateEntity(ctx context.Context, entity models.Entity) (models.Entity, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	entity.ID = uuid.New().String()
	db.Cache.Entities = append(db.Cache.Entities, entity)

	return entity, nil
}

// UpdateEntity merges the patch into the entity matching id.
func (db *JSONDB) UpdateEntity(ctx context.Context, id string, patch models.EntityPatch) (models.Entity, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.Cache.Entities {
		if db.Cache.Entities[i].ID != id {
			continue
		}
		entity := &db.Cache.Entities[i]
		if patch.Name != nil {
			entity.Name = *patch.Name
		}
		if patch.IsActive != nil {
			entity.IsActive = *patch.IsActive
		}
		if patch.Remarks != nil {
			entity.Remarks = *patch.Remarks
		}
		if patch.PersonName != nil {
			entity.PersonName = *patch.PersonName
		}
		if patch.Address != nil {
			entity.Address = *patch.Address
		}
		if patch.Place != nil {
			entity.Place = *patch.Place
		}

		return *entity, true, nil
	}

	return models.Entity{}, false, nil
}

// DeleteEntity removes the entity matching id.
func (db *JSONDB) DeleteEntity(ctx context.Context, id string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	before := len(db.Cache.Entities)
	db.Cache.Entities = funk.Filter(db.Cache.Entities, func(entity models.Entity) bool {
		return entity.ID != id
	}).([]models.Entity)

	return len(db.Cache.Entities) != before, nil
}

// ListCouriers returns a snapshot copy of the couriers collection.
func (db *JSONDB) ListCouriers(ctx context.Context) ([]models.Courier, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return append([]models.Courier{}, db.Cache.Couriers...), nil
}

// CreateCourier appends a courier under a fresh identifier.
func (db *JSONDB) CreateCourier(ctx context.Context, courier models.Courier) (models.Courier, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	courier.ID = uuid.New().String()
	db.Cache.Couriers = append(db.Cache.Couriers, courier)

	return courier, nil
}

// UpdateCourier merges the patch into the courier matching id.
func (db *JSONDB) UpdateCourier(ctx context.Context, id string, patch models.CourierPatch) (models.Courier, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.Cache.Couriers {
		if db.Cache.Couriers[i].ID != id {
			continue
		}
		courier := &db.Cache.Couriers[i]
		if patch.Name != nil {
			courier.Name = *patch.Name
		}
		if patch.IsActive != nil {
			courier.IsActive = *patch.IsActive
		}
		if patch.Remarks != nil {
			courier.Remarks = *patch.Remarks
		}
		if patch.ContactPerson != nil {
			courier.ContactPerson = *patch.ContactPerson
		}
		if patch.Phone != nil {
			courier.Phone = *patch.Phone
		}
		if patch.Email != nil {
			courier.Email = *patch.Email
		}
		if patch.Website != nil {
			courier.Website = *patch.Website
		}
		if patch.Address != nil {
			courier.Address = *patch.Address
		}

		return *courier, true, nil
	}

	return models.Courier{}, false, nil
}

// DeleteCourier removes the courier matching id.
func (db *JSONDB) DeleteCourier(ctx context.Context, id string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	before := len(db.Cache.Couriers)
	db.Cache.Couriers = funk.Filter(db.Cache.Couriers, func(courier models.Courier) bool {
		return courier.ID != id
	}).([]models.Courier)

	return len(db.Cache.Couriers) != before, nil
}

// CreateInwardEntry appends an inward entry. The caller is expected to have
// assigned the identifier and register number already.
func (db *JSONDB) CreateInwardEntry(ctx context.Context, entry models.InwardEntry) (models.InwardEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.Cache.InwardEntries = append(db.Cache.InwardEntries, entry)

	return entry, nil
}

// CreateOutwardEntry appends an outward entry.
func (db *JSONDB) CreateOutwardEntry(ctx context.Context, entry models.OutwardEntry) (models.OutwardEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.Cache.OutwardEntries = append(db.Cache.OutwardEntries, entry)

	return entry, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func matchesInward(entry models.InwardEntry, filter models.EntryFilter) bool {
	if filter.Type != "" && filter.Type != models.EntryInward {
		return false
	}
	if filter.DateFrom != "" && entry.InwardDate < filter.DateFrom {
		return false
	}
	if filter.DateTo != "" && entry.InwardDate > filter.DateTo {
		return false
	}
	if filter.Mode != "" && entry.Mode != filter.Mode {
		return false
	}
	if filter.Courier != "" && entry.CourierCompany != filter.Courier {
		return false
	}
	if filter.Status != "" && entry.Status != filter.Status {
		return false
	}
	if filter.Query != "" {
		return containsFold(entry.InwardNo, filter.Query) ||
			containsFold(entry.Subject, filter.Query) ||
			containsFold(entry.Description, filter.Query) ||
			containsFold(entry.SenderName, filter.Query) ||
			containsFold(entry.LetterNo, filter.Query)
	}

	return true
}

func matchesOutward(entry models.OutwardEntry, filter models.EntryFilter) bool {
	if filter.Type != "" && filter.Type != models.EntryOutward {
		return false
	}
	// Modes of receipt only apply to inward documents.
	if filter.Mode != "" {
		return false
	}
	if filter.DateFrom != "" && entry.DispatchDate < filter.DateFrom {
		return false
	}
	if filter.DateTo != "" && entry.DispatchDate > filter.DateTo {
		return false
	}
	if filter.Courier != "" && entry.CourierCompany != filter.Courier {
		return false
	}
	if filter.Status != "" && entry.Status != filter.Status {
		return false
	}
	if filter.Query != "" {
		return containsFold(entry.OutwardNo, filter.Query) ||
			containsFold(entry.Subject, filter.Query) ||
			containsFold(entry.Description, filter.Query) ||
			containsFold(entry.RecipientName, filter.Query) ||
			containsFold(entry.LetterNo, filter.Query)
	}

	return true
}

// ListInwardEntries returns the inward entries matching the filter.
func (db *JSONDB) ListInwardEntries(ctx context.Context, filter models.EntryFilter) ([]models.InwardEntry, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := funk.Filter(append([]models.InwardEntry{}, db.Cache.InwardEntries...), func(entry models.InwardEntry) bool {
		return matchesInward(entry, filter)
	}).([]models.InwardEntry)

	return result, nil
}

// ListOutwardEntries returns the outward entries matching the filter.
func (db *JSONDB) ListOutwardEntries(ctx context.Context, filter models.EntryFilter) ([]models.OutwardEntry, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := funk.Filter(append([]models.OutwardEntry{}, db.Cache.OutwardEntries...), func(entry models.OutwardEntry) bool {
		return matchesOutward(entry, filter)
	}).([]models.OutwardEntry)

	return result, nil
}

// QueryEntries returns flat summaries of both entry types matching the filter.
func (db *JSONDB) QueryEntries(ctx context.Context, filter models.EntryFilter) ([]models.EntrySummary, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := []models.EntrySummary{}
	for _, entry := range db.Cache.InwardEntries {
		if !matchesInward(entry, filter) {
			continue
		}
		result = append(result, models.EntrySummary{
			ID:           entry.ID,
			Type:         models.EntryInward,
			Number:       entry.InwardNo,
			Date:         entry.InwardDate,
			Subject:      entry.Subject,
			Counterparty: entry.SenderName,
			Status:       entry.Status,
		})
	}
	for _, entry := range db.Cache.OutwardEntries {
		if !matchesOutward(entry, filter) {
			continue
		}
		result = append(result, models.EntrySummary{
			ID:           entry.ID,
			Type:         models.EntryOutward,
			Number:       entry.OutwardNo,
			Date:         entry.DispatchDate,
			Subject:      entry.Subject,
			Counterparty: entry.RecipientName,
			Status:       entry.Status,
		})
	}

	return result, nil
}

// GetNumberOfEntries counts entries of one type.
func (db *JSONDB) GetNumberOfEntries(ctx context.Context, entryType models.EntryType) (int64, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if entryType == models.EntryInward {
		return int64(len(db.Cache.InwardEntries)), nil
	}

	return int64(len(db.Cache.OutwardEntries)), nil
}

// GetNumberOfEntriesByStatus counts all entries grouped by delivery status.
func (db *JSONDB) GetNumberOfEntriesByStatus(ctx context.Context) (map[models.DeliveryStatus]int64, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := map[models.DeliveryStatus]int64{}
	for _, entry := range db.Cache.InwardEntries {
		result[entry.Status]++
	}
	for _, entry := range db.Cache.OutwardEntries {
		result[entry.Status]++
	}

	return result, nil
}

// NextSequence returns the next register number for the type/year pair.
func (db *JSONDB) NextSequence(ctx context.Context, entryType models.EntryType, year int) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key := fmt.Sprintf("%s/%d", entryType, year)
	db.Cache.Sequences[key]++

	return db.Cache.Sequences[key], nil
}
