// Package postgresdb provides a PostgreSQL-backed implementation of the
// storage contract. It runs schema migrations on startup and performs
// register filtering in SQL.
package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/patric-chuzhbe/docreg/internal/models"
)

// PostgresDB is the PostgreSQL-backed register store.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

// New connects to the database, applies goose migrations from migrationsDir
// and seeds the default accounts and reference data when the tables are empty.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	migrationsDir string,
) (*PostgresDB, error) {
	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.SetDialect()` calling: %w",
				err,
			)
	}

	if err := goose.Up(result.database, migrationsDir); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.Up()` calling: %w",
				err,
			)
	}

	if err := result.seedDefaults(ctx); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `result.seedDefaults()` calling: %w",
				err,
			)
	}

	return result, nil
}

func (db *PostgresDB) seedDefaults(ctx context.Context) error {
	var usersCount int64
	err := db.database.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&usersCount)
	if err != nil {
		return err
	}
	if usersCount > 0 {
		return nil
	}

	_, err = db.database.ExecContext(
		ctx,
		`
			INSERT INTO users (id, username, name, role)
				VALUES
					('1', 'admin', 'System Administrator', 'ADMIN'),
					('2', 'operator', 'Front Desk Operator', 'OPERATOR')
		`,
	)
	if err != nil {
		return err
	}

	_, err = db.database.ExecContext(
		ctx,
		`
			INSERT INTO modes (id, name, is_active, remarks)
				VALUES
					('1', 'By Hand', true, ''),
					('2', 'Courier', true, ''),
					('3', 'Post', true, ''),
					('4', 'Email', true, '')
		`,
	)

	return err
}

// Close closes the underlying database connection.
func (db *PostgresDB) Close() error {
	return db.database.Close()
}

// Ping checks the database connection within the configured timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.database.PingContext(ctxWithTimeout)
}

// GetUserByUsername resolves an account by case-insensitive username match.
func (db *PostgresDB) GetUserByUsername(ctx context.Context, username string) (*models.User, bool, error) {
	row := db.database.QueryRowContext(
		ctx,
		`SELECT id, username, name, role FROM users WHERE lower(username) = lower($1)`,
		username,
	)

	usr := &models.User{}
	err := row.Scan(&usr.ID, &usr.Username, &usr.Name, &usr.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return usr, true, nil
}

// CreateUser stores a new account and returns its assigned identifier.
func (db *PostgresDB) CreateUser(ctx context.Context, usr *models.User) (string, error) {
	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}

	_, err := db.database.ExecContext(
		ctx,
		`INSERT INTO users (id, username, name, role) VALUES ($1, $2, $3, $4)`,
		usr.ID,
		usr.Username,
		usr.Name,
		usr.Role,
	)
	if err != nil {
		return "", err
	}

	return usr.ID, nil
}

// ListOffices returns the offices collection.
func (db *PostgresDB) ListOffices(ctx context.Context) ([]models.Office, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`
			SELECT id, name, is_active, remarks, institute, department, opening_inward_no, opening_outward_no
				FROM offices
				ORDER BY name
		`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.Office{}
	for rows.Next() {
		var office models.Office
		err = rows.Scan(
			&office.ID,
			&office.Name,
			&office.IsActive,
			&office.Remarks,
			&office.Institute,
			&office.Department,
			&office.OpeningInwardNo,
			&office.OpeningOutwardNo,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, office)
	}

	return result, rows.Err()
}

// CreateOffice inserts an office under a fresh identifier.
func (db *PostgresDB) CreateOffice(ctx context.Context, office models.Office) (models.Office, error) {
	office.ID = uuid.New().String()
	_, err := db.database.ExecContext(
		ctx,
		`
			INSERT INTO offices (id, name, is_active, remarks, institute, department, opening_inward_no, opening_outward_no)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
		office.ID,
		office.Name,
		office.IsActive,
		office.Remarks,
		office.Institute,
		office.Department,
		office.OpeningInwardNo,
		office.OpeningOutwardNo,
	)
	if err != nil {
		return models.Office{}, err
	}

	return office, nil
}

// UpdateOffice merges the patch into the office matching id.
func (db *PostgresDB) UpdateOffice(ctx context.Context, id string, patch models.OfficePatch) (models.Office, bool, error) {
	transaction, err := db.database.Begin()
	if err != nil {
		return models.Office{}, false, err
	}
	defer func() {
		_ = transaction.Rollback()
	}()

	row := transaction.QueryRowContext(
		ctx,
		`
			SELECT id, name, is_active, remarks, institute, department, opening_inward_no, opening_outward_no
				FROM offices
				WHERE id = $1
				FOR UPDATE
		`,
		id,
	)

	var office models.Office
	err = row.Scan(
		&office.ID,
		&office.Name,
		&office.IsActive,
		&office.Remarks,
		&office.Institute,
		&office.Department,
		&office.OpeningInwardNo,
		&office.OpeningOutwardNo,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Office{}, false, nil
	}
	if err != nil {
		return models.Office{}, false, err
	}

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

	_, err = transaction.ExecContext(
		ctx,
		`
			UPDATE offices
				SET name = $2,
					is_active = $3,
					remarks = $4,
					institute = $5,
					department = $6,
					opening_inward_no = $7,
					opening_outward_no = $8
				WHERE id = $1
		`,
		office.ID,
		office.Name,
		office.IsActive,
		office.Remarks,
		office.Institute,
		office.Department,
		office.OpeningInwardNo,
		office.OpeningOutwardNo,
	)
	if err != nil {
		return models.Office{}, false, err
	}

	return office, true, transaction.Commit()
}

// DeleteOffice removes the office matching id.
func (db *PostgresDB) DeleteOffice(ctx context.Context, id string) (bool, error) {
	return db.deleteByID(ctx, "offices", id)
}

// ListModes returns the modes collection.
func (db *PostgresDB) ListModes(ctx context.Context) ([]models.Mode, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`SELECT id, name, is_active, remarks FROM modes ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.Mode{}
	for rows.Next() {
		var mode models.Mode
		err = rows.Scan(&mode.ID, &mode.Name, &mode.IsActive, &mode.Remarks)
		if err != nil {
			return nil, err
		}
		result = append(result, mode)
	}

	return result, rows.Err()
}

// CreateMode inserts a mode under a fresh identifier.
func (db *PostgresDB) CreateMode(ctx context.Context, mode models.Mode) (models.Mode, error) {
	mode.ID = uuid.New().String()
	_, err := db.database.ExecContext(
		ctx,
		`INSERT INTO modes (id, name, is_active, remarks) VALUES ($1, $2, $3, $4)`,
		mode.ID,
		mode.Name,
		mode.IsActive,
		mode.Remarks,
	)
	if err != nil {
		return models.Mode{}, err
	}

	return mode, nil
}

// UpdateMode merges the patch into the mode matching id.
func (db *PostgresDB) UpdateMode(ctx context.Context, id string, patch models.ModePatch) (models.Mode, bool, error) {
	transaction, err := db.database.Begin()
	if err != nil {
		return models.Mode{}, false, err
	}
	defer func() {
		_ = transaction.Rollback()
	}()

	row := transaction.QueryRowContext(
		ctx,
		`SELECT id, name, is_active, remarks FROM modes WHERE id = $1 FOR UPDATE`,
		id,
	)

	var mode models.Mode
	err = row.Scan(&mode.ID, &mode.Name, &mode.IsActive, &mode.Remarks)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Mode{}, false, nil
	}
	if err != nil {
		return models.Mode{}, false, err
	}

	if patch.Name != nil {
		mode.Name = *patch.Name
	}
	if patch.IsActive != nil {
		mode.IsActive = *patch.IsActive
	}
	if patch.Remarks != nil {
		mode.Remarks = *patch.Remarks
	}

	_, err = transaction.ExecContext(
		ctx,
		`UPDATE modes SET name = $2, is_active = $3, remarks = $4 WHERE id = $1`,
		mode.ID,
		mode.Name,
		mode.IsActive,
		mode.Remarks,
	)
	if err != nil {
		return models.Mode{}, false, err
	}

	return mode, true, transaction.Commit()
}

// DeleteMode removes the mode matching id.
func (db *PostgresDB) DeleteMode(ctx context.Context, id string) (bool, error) {
	return db.deleteByID(ctx, "modes", id)
}

// ListEntities returns the entities collection.
func (db *PostgresDB) ListEntities(ctx context.Context) ([]models.Entity, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`SELECT id, name, is_active, remarks, person_name, address, place FROM entities ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.Entity{}
	for rows.Next() {
		var entity models.Entity
		err = rows.Scan(
			&entity.ID,
			&entity.Name,
			&entity.IsActive,
			&entity.Remarks,
			&entity.PersonName,
			&entity.Address,
			&entity.Place,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, entity)
	}

	return result, rows.Err()
}

// CreateEntity inserts an entity under a fresh identifier.
func (db *PostgresDB) CreateEntity(ctx context.Context, entity models.Entity) (models.Entity, error) {
	entity.ID = uuid.New().String()
	_, err := db.database.ExecContext(
		ctx,
		`
			INSERT INTO entities (id, name, is_active, remarks, person_name, address, place)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
		entity.ID,
		entity.Name,
		entity.IsActive,
		entity.Remarks,
		entity.PersonName,
		entity.Address,
		entity.Place,
	)
	if err != nil {
		return models.Entity{}, err
	}

	return entity, nil
}

// UpdateEntity merges the patch into the entity matching id.
func (db *PostgresDB) UpdateEntity(ctx context.Context, id string, patch models.EntityPatch) (models.Entity, bool, error) {
	transaction, err := db.database.Begin()
	if err != nil {
		return models.Entity{}, false, err
	}
	defer func() {
		_ = transaction.Rollback()
	}()

	row := transaction.QueryRowContext(
		ctx,
		`
			SELECT id, name, is_active, remarks, person_name, address, place
				FROM entities
				WHERE id = $1
				FOR UPDATE
		`,
		id,
	)

	var entity models.Entity
	err = row.Scan(
		&entity.ID,
		&entity.Name,
		&entity.IsActive,
		&entity.Remarks,
		&entity.PersonName,
		&entity.Address,
		&entity.Place,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entity{}, false, nil
	}
	if err != nil {
		return models.Entity{}, false, err
	}

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

	_, err = transaction.ExecContext(
		ctx,
		`
			UPDATE entities
				SET name = $2, is_active = $3, remarks = $4, person_name = $5, address = $6, place = $7
				WHERE id = $1
		`,
		entity.ID,
		entity.Name,
		entity.IsActive,
		entity.Remarks,
		entity.PersonName,
		entity.Address,
		entity.Place,
	)
	if err != nil {
		return models.Entity{}, false, err
	}

	return entity, true, transaction.Commit()
}

// DeleteEntity removes the entity matching id.
func (db *PostgresDB) DeleteEntity(ctx context.Context, id string) (bool, error) {
	return db.deleteByID(ctx, "entities", id)
}

// ListCouriers returns the couriers collection.
func (db *PostgresDB) ListCouriers(ctx context.Context) ([]models.Courier, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`
			SELECT id, name, is_active, remarks, contact_person, phone, email, website, address
				FROM couriers
				ORDER BY name
		`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.Courier{}
	for rows.Next() {
		var courier models.Courier
		err = rows.Scan(
			&courier.ID,
			&courier.Name,
			&courier.IsActive,
			&courier.Remarks,
			&courier.ContactPerson,
			&courier.Phone,
			&courier.Email,
			&courier.Website,
			&courier.Address,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, courier)
	}

	return result, rows.Err()
}

// CreateCourier inserts a courier under a fresh identifier.
func (db *PostgresDB) CreateCourier(ctx context.Context, courier models.Courier) (models.Courier, error) {
	courier.ID = uuid.New().String()
	_, err := db.database.ExecContext(
		ctx,
		`
			INSERT INTO couriers (id, name, is_active, remarks, contact_person, phone, email, website, address)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
		courier.ID,
		courier.Name,
		courier.IsActive,
		courier.Remarks,
		courier.ContactPerson,
		courier.Phone,
		courier.Email,
		courier.Website,
		courier.Address,
	)
	if err != nil {
		return models.Courier{}, err
	}

	return courier, nil
}

// UpdateCourier merges the patch into the courier matching id.
func (db *PostgresDB) UpdateCourier(ctx context.Context, id string, patch models.CourierPatch) (models.Courier, bool, error) {
	transaction, err := db.database.Begin()
	if err != nil {
		return models.Courier{}, false, err
	}
	defer func() {
		_ = transaction.Rollback()
	}()

	row := transaction.QueryRowContext(
		ctx,
		`
			SELECT id, name, is_active, remarks, contact_person, phone, email, website, address
				FROM couriers
				WHERE id = $1
				FOR UPDATE
		`,
		id,
	)

	var courier models.Courier
	err = row.Scan(
		&courier.ID,
		&courier.Name,
		&courier.IsActive,
		&courier.Remarks,
		&courier.ContactPerson,
		&courier.Phone,
		&courier.Email,
		&courier.Website,
		&courier.Address,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Courier{}, false, nil
	}
	if err != nil {
		return models.Courier{}, false, err
	}

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

	_, err = transaction.ExecContext(
		ctx,
		`
			UPDATE couriers
				SET name = $2,
					is_active = $3,
					remarks = $4,
					contact_person = $5,
					phone = $6,
					email = $7,
					website = $8,
					address = $9
				WHERE id = $1
		`,
		courier.ID,
		courier.Name,
		courier.IsActive,
		courier.Remarks,
		courier.ContactPerson,
		courier.Phone,
		courier.Email,
		courier.Website,
		courier.Address,
	)
	if err != nil {
		return models.Courier{}, false, err
	}

	return courier, true, transaction.Commit()
}

// DeleteCourier removes the courier matching id.
func (db *PostgresDB) DeleteCourier(ctx context.Context, id string) (bool, error) {
	return db.deleteByID(ctx, "couriers", id)
}

func (db *PostgresDB) deleteByID(ctx context.Context, table, id string) (bool, error) {
	result, err := db.database.ExecContext(
		ctx,
		`DELETE FROM `+table+` WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// CreateInwardEntry inserts an inward entry.
func (db *PostgresDB) CreateInwardEntry(ctx context.Context, entry models.InwardEntry) (models.InwardEntry, error) {
	_, err := db.database.ExecContext(
		ctx,
		`
			INSERT INTO inward_entries (
				id, inward_no, inward_date, received_date, mode, courier_company,
				receipt_no, receipt_date, sender_name, sender_address, letter_no,
				letter_date, subject, description, from_office, to_office,
				department, to_person, status
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		`,
		entry.ID,
		entry.InwardNo,
		entry.InwardDate,
		entry.ReceivedDate,
		entry.Mode,
		entry.CourierCompany,
		entry.ReceiptNo,
		entry.ReceiptDate,
		entry.SenderName,
		entry.SenderAddress,
		entry.LetterNo,
		entry.LetterDate,
		entry.Subject,
		entry.Description,
		entry.FromOffice,
		entry.ToOffice,
		entry.Department,
		entry.ToPerson,
		entry.Status,
	)
	if err != nil {
		return models.InwardEntry{}, err
	}

	return entry, nil
}

// CreateOutwardEntry inserts an outward entry.
func (db *PostgresDB) CreateOutwardEntry(ctx context.Context, entry models.OutwardEntry) (models.OutwardEntry, error) {
	_, err := db.database.ExecContext(
		ctx,
		`
			INSERT INTO outward_entries (
				id, outward_no, dispatch_date, dispatched_by, recipient_name,
				recipient_address, courier_company, tracking_id, charges, letter_no,
				subject, description, from_office, to_office, department, to_person,
				is_returned, return_date, return_reason, status
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		`,
		entry.ID,
		entry.OutwardNo,
		entry.DispatchDate,
		entry.DispatchedBy,
		entry.RecipientName,
		entry.RecipientAddress,
		entry.CourierCompany,
		entry.TrackingID,
		entry.Charges,
		entry.LetterNo,
		entry.Subject,
		entry.Description,
		entry.FromOffice,
		entry.ToOffice,
		entry.Department,
		entry.ToPerson,
		entry.IsReturned,
		entry.ReturnDate,
		entry.ReturnReason,
		entry.Status,
	)
	if err != nil {
		return models.OutwardEntry{}, err
	}

	return entry, nil
}

func buildEntryConditions(
	filter models.EntryFilter,
	dateColumn string,
	counterpartyColumn string,
	numberColumn string,
	withMode bool,
) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}

	addCondition := func(condition string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, strings.ReplaceAll(condition, "?", "$"+strconv.Itoa(len(args))))
	}

	if filter.DateFrom != "" {
		addCondition(dateColumn+" >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		addCondition(dateColumn+" <= ?", filter.DateTo)
	}
	if filter.Mode != "" && withMode {
		addCondition("mode = ?", filter.Mode)
	}
	if filter.Courier != "" {
		addCondition("courier_company = ?", filter.Courier)
	}
	if filter.Status != "" {
		addCondition("status = ?", filter.Status)
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		// A single placeholder serves all five ILIKE terms.
		placeholder := "$" + strconv.Itoa(len(args))
		conditions = append(conditions, "("+numberColumn+" ILIKE "+placeholder+
			" OR subject ILIKE "+placeholder+
			" OR description ILIKE "+placeholder+
			" OR "+counterpartyColumn+" ILIKE "+placeholder+
			" OR letter_no ILIKE "+placeholder+")")
	}

	if len(conditions) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

// ListInwardEntries returns the inward entries matching the filter.
func (db *PostgresDB) ListInwardEntries(ctx context.Context, filter models.EntryFilter) ([]models.InwardEntry, error) {
	if filter.Type != "" && filter.Type != models.EntryInward {
		return []models.InwardEntry{}, nil
	}

	where, args := buildEntryConditions(filter, "inward_date", "sender_name", "inward_no", true)
	rows, err := db.database.QueryContext(
		ctx,
		`
			SELECT id, inward_no, inward_date, received_date, mode, courier_company,
					receipt_no, receipt_date, sender_name, sender_address, letter_no,
					letter_date, subject, description, from_office, to_office,
					department, to_person, status
				FROM inward_entries
		`+where+` ORDER BY inward_no`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.InwardEntry{}
	for rows.Next() {
		var entry models.InwardEntry
		err = rows.Scan(
			&entry.ID,
			&entry.InwardNo,
			&entry.InwardDate,
			&entry.ReceivedDate,
			&entry.Mode,
			&entry.CourierCompany,
			&entry.ReceiptNo,
			&entry.ReceiptDate,
			&entry.SenderName,
			&entry.SenderAddress,
			&entry.LetterNo,
			&entry.LetterDate,
			&entry.Subject,
			&entry.Description,
			&entry.FromOffice,
			&entry.ToOffice,
			&entry.Department,
			&entry.ToPerson,
			&entry.Status,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, entry)
	}

	return result, rows.Err()
}

// ListOutwardEntries returns the outward entries matching the filter.
func (db *PostgresDB) ListOutwardEntries(ctx context.Context, filter models.EntryFilter) ([]models.OutwardEntry, error) {
	if filter.Type != "" && filter.Type != models.EntryOutward {
		return []models.OutwardEntry{}, nil
	}
	// Modes of receipt only apply to inward documents.
	if filter.Mode != "" {
		return []models.OutwardEntry{}, nil
	}

	where, args := buildEntryConditions(filter, "dispatch_date", "recipient_name", "outward_no", false)
	rows, err := db.database.QueryContext(
		ctx,
		`
			SELECT id, outward_no, dispatch_date, dispatched_by, recipient_name,
					recipient_address, courier_company, tracking_id, charges, letter_no,
					subject, description, from_office, to_office, department, to_person,
					is_returned, return_date, return_reason, status
				FROM outward_entries
		`+where+` ORDER BY outward_no`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.OutwardEntry{}
	for rows.Next() {
		var entry models.OutwardEntry
		err = rows.Scan(
			&entry.ID,
			&entry.OutwardNo,
			&entry.DispatchDate,
			&entry.DispatchedBy,
			&entry.RecipientName,
			&entry.RecipientAddress,
			&entry.CourierCompany,
			&entry.TrackingID,
			&entry.Charges,
			&entry.LetterNo,
			&entry.Subject,
			&entry.Description,
			&entry.FromOffice,
			&entry.ToOffice,
			&entry.Department,
			&entry.ToPerson,
			&entry.IsReturned,
			&entry.ReturnDate,
			&entry.ReturnReason,
			&entry.Status,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, entry)
	}

	return result, rows.Err()
}

// QueryEntries returns flat summaries of both entry types matching the filter.
func (db *PostgresDB) QueryEntries(ctx context.Context, filter models.EntryFilter) ([]models.EntrySummary, error) {
	result := []models.EntrySummary{}

	inward, err := db.ListInwardEntries(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, entry := range inward {
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

	outward, err := db.ListOutwardEntries(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, entry := range outward {
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
func (db *PostgresDB) GetNumberOfEntries(ctx context.Context, entryType models.EntryType) (int64, error) {
	table := "inward_entries"
	if entryType == models.EntryOutward {
		table = "outward_entries"
	}

	var count int64
	err := db.database.QueryRowContext(ctx, `SELECT count(*) FROM `+table).Scan(&count)

	return count, err
}

// GetNumberOfEntriesByStatus counts all entries grouped by delivery status.
func (db *PostgresDB) GetNumberOfEntriesByStatus(ctx context.Context) (map[models.DeliveryStatus]int64, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`
			SELECT status, count(*)
				FROM (
					SELECT status FROM inward_entries
					UNION ALL
					SELECT status FROM outward_entries
				) entries
				GROUP BY status
		`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[models.DeliveryStatus]int64{}
	for rows.Next() {
		var status models.DeliveryStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		result[status] = count
	}

	return result, rows.Err()
}

// NextSequence atomically allocates the next register number
// for the type/year pair.
func (db *PostgresDB) NextSequence(ctx context.Context, entryType models.EntryType, year int) (int, error) {
	row := db.database.QueryRowContext(
		ctx,
		`
			INSERT INTO sequences (entry_type, year, value)
				VALUES ($1, $2, 1)
				ON CONFLICT (entry_type, year)
					DO UPDATE SET value = sequences.value + 1
				RETURNING value
		`,
		entryType,
		year,
	)

	var value int
	err := row.Scan(&value)

	return value, err
}
