package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/chinook/internal/shared"
)

// withID adds the Id column when the identifier has been assigned.
func withID(id int64, values map[string]any) map[string]any {
	if id > 0 {
		values[IDColumn] = id
	}
	return values
}

// nullableID maps an optional reference to a SQL value.
func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func required(table, column, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s.%s is required", shared.ErrInvalidInput, table, column)
	}
	return nil
}

func reference(table, column string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s.%s must reference a row", shared.ErrInvalidInput, table, column)
	}
	return nil
}

// Artist is a recording artist.
type Artist struct {
	ID   int64
	Name string
}

func (a *Artist) Table() Table   { return ArtistsTable }
func (a *Artist) SetID(id int64) { a.ID = id }
func (a *Artist) Validate() error {
	return required(ArtistsTable.Name, "Name", a.Name)
}
func (a *Artist) Values() map[string]any {
	return withID(a.ID, map[string]any{"Name": a.Name})
}

// Genre is a musical style.
type Genre struct {
	ID   int64
	Name string
}

func (g *Genre) Table() Table   { return GenresTable }
func (g *Genre) SetID(id int64) { g.ID = id }
func (g *Genre) Validate() error {
	return required(GenresTable.Name, "Name", g.Name)
}
func (g *Genre) Values() map[string]any {
	return withID(g.ID, map[string]any{"Name": g.Name})
}

// MediaType is the encoding of a track.
type MediaType struct {
	ID   int64
	Name string
}

func (m *MediaType) Table() Table   { return MediaTypesTable }
func (m *MediaType) SetID(id int64) { m.ID = id }
func (m *MediaType) Validate() error {
	return required(MediaTypesTable.Name, "Name", m.Name)
}
func (m *MediaType) Values() map[string]any {
	return withID(m.ID, map[string]any{"Name": m.Name})
}

// Playlist is a named mix of tracks.
type Playlist struct {
	ID   int64
	Name string
}

func (p *Playlist) Table() Table   { return PlaylistsTable }
func (p *Playlist) SetID(id int64) { p.ID = id }
func (p *Playlist) Validate() error {
	return required(PlaylistsTable.Name, "Name", p.Name)
}
func (p *Playlist) Values() map[string]any {
	return withID(p.ID, map[string]any{"Name": p.Name})
}

// Album belongs to one artist.
type Album struct {
	ID       int64
	Title    string
	ArtistID int64
}

func (a *Album) Table() Table   { return AlbumsTable }
func (a *Album) SetID(id int64) { a.ID = id }
func (a *Album) Validate() error {
	if err := required(AlbumsTable.Name, "Title", a.Title); err != nil {
		return err
	}
	return reference(AlbumsTable.Name, "ArtistId", a.ArtistID)
}
func (a *Album) Values() map[string]any {
	return withID(a.ID, map[string]any{"Title": a.Title, "ArtistId": a.ArtistID})
}

// Track is a single song on an album.
type Track struct {
	ID           int64
	Name         string
	AlbumID      int64
	MediaTypeID  int64
	GenreID      int64
	Composer     string
	Milliseconds int64
	Bytes        int64
	UnitPrice    float64
}

func (t *Track) Table() Table   { return TracksTable }
func (t *Track) SetID(id int64) { t.ID = id }
func (t *Track) Validate() error {
	if err := required(TracksTable.Name, "Name", t.Name); err != nil {
		return err
	}
	for col, id := range map[string]int64{"AlbumId": t.AlbumID, "MediaTypeId": t.MediaTypeID, "GenreId": t.GenreID} {
		if err := reference(TracksTable.Name, col, id); err != nil {
			return err
		}
	}
	if t.Milliseconds < 0 || t.Bytes < 0 || t.UnitPrice < 0 {
		return fmt.Errorf("%w: track measurements cannot be negative", shared.ErrInvalidInput)
	}
	return nil
}
func (t *Track) Values() map[string]any {
	return withID(t.ID, map[string]any{
		"Name":         t.Name,
		"AlbumId":      t.AlbumID,
		"MediaTypeId":  t.MediaTypeID,
		"GenreId":      t.GenreID,
		"Composer":     t.Composer,
		"Milliseconds": t.Milliseconds,
		"Bytes":        t.Bytes,
		"UnitPrice":    t.UnitPrice,
	})
}

// Contact holds the address block shared by employees and customers.
type Contact struct {
	Address    string
	City       string
	State      string
	Country    string
	PostalCode string
	Phone      string
	Fax        string
	Email      string
}

func (c Contact) values(m map[string]any) map[string]any {
	m["Address"] = c.Address
	m["City"] = c.City
	m["State"] = c.State
	m["Country"] = c.Country
	m["PostalCode"] = c.PostalCode
	m["Phone"] = c.Phone
	m["Fax"] = c.Fax
	m["Email"] = c.Email
	return m
}

// Employee is a member of staff. ReportsTo is nil at the top of the hierarchy.
type Employee struct {
	ID        int64
	LastName  string
	FirstName string
	Title     string
	ReportsTo *int64
	BirthDate string
	HireDate  string
	Contact
}

func (e *Employee) Table() Table   { return EmployeesTable }
func (e *Employee) SetID(id int64) { e.ID = id }

// Validate rejects an employee reporting to itself; deeper cycles are not checked.
func (e *Employee) Validate() error {
	for col, v := range map[string]string{"LastName": e.LastName, "FirstName": e.FirstName, "Title": e.Title, "Email": e.Email} {
		if err := required(EmployeesTable.Name, col, v); err != nil {
			return err
		}
	}
	if e.ReportsTo != nil && e.ID > 0 && *e.ReportsTo == e.ID {
		return fmt.Errorf("%w: employee %d cannot report to itself", shared.ErrInvalidInput, e.ID)
	}
	return nil
}
func (e *Employee) Values() map[string]any {
	return withID(e.ID, e.Contact.values(map[string]any{
		"LastName":  e.LastName,
		"FirstName": e.FirstName,
		"Title":     e.Title,
		"ReportsTo": nullableID(e.ReportsTo),
		"BirthDate": e.BirthDate,
		"HireDate":  e.HireDate,
	}))
}

// Customer buys tracks and is served by an optional support rep.
type Customer struct {
	ID           int64
	FirstName    string
	LastName     string
	Company      string
	SupportRepID *int64
	Contact
}

func (c *Customer) Table() Table   { return CustomersTable }
func (c *Customer) SetID(id int64) { c.ID = id }
func (c *Customer) Validate() error {
	for col, v := range map[string]string{"FirstName": c.FirstName, "LastName": c.LastName, "Email": c.Email} {
		if err := required(CustomersTable.Name, col, v); err != nil {
			return err
		}
	}
	return nil
}
func (c *Customer) Values() map[string]any {
	return withID(c.ID, c.Contact.values(map[string]any{
		"FirstName":    c.FirstName,
		"LastName":     c.LastName,
		"Company":      c.Company,
		"SupportRepId": nullableID(c.SupportRepID),
	}))
}

// Invoice bills a customer.
type Invoice struct {
	ID                int64
	CustomerID        int64
	InvoiceDate       string
	BillingAddress    string
	BillingCity       string
	BillingState      string
	BillingCountry    string
	BillingPostalCode string
	Email             string
	Total             float64
}

func (i *Invoice) Table() Table   { return InvoicesTable }
func (i *Invoice) SetID(id int64) { i.ID = id }
func (i *Invoice) Validate() error {
	if err := reference(InvoicesTable.Name, "CustomerId", i.CustomerID); err != nil {
		return err
	}
	if i.Total < 0 {
		return fmt.Errorf("%w: invoice total cannot be negative", shared.ErrInvalidInput)
	}
	return nil
}
func (i *Invoice) Values() map[string]any {
	return withID(i.ID, map[string]any{
		"CustomerId":        i.CustomerID,
		"InvoiceDate":       i.InvoiceDate,
		"BillingAddress":    i.BillingAddress,
		"BillingCity":       i.BillingCity,
		"BillingState":      i.BillingState,
		"BillingCountry":    i.BillingCountry,
		"BillingPostalCode": i.BillingPostalCode,
		"Email":             i.Email,
		"Total":             i.Total,
	})
}

// InvoiceItem is one line of an invoice.
type InvoiceItem struct {
	ID        int64
	InvoiceID int64
	TrackID   int64
	UnitPrice float64
	Quantity  int64
}

func (i *InvoiceItem) Table() Table   { return InvoiceItemsTable }
func (i *InvoiceItem) SetID(id int64) { i.ID = id }
func (i *InvoiceItem) Validate() error {
	if err := reference(InvoiceItemsTable.Name, "InvoiceId", i.InvoiceID); err != nil {
		return err
	}
	if err := reference(InvoiceItemsTable.Name, "TrackId", i.TrackID); err != nil {
		return err
	}
	if i.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", shared.ErrInvalidInput)
	}
	return nil
}
func (i *InvoiceItem) Values() map[string]any {
	return withID(i.ID, map[string]any{
		"InvoiceId": i.InvoiceID,
		"TrackId":   i.TrackID,
		"UnitPrice": i.UnitPrice,
		"Quantity":  i.Quantity,
	})
}

// PlaylistTrack joins a playlist to a track.
type PlaylistTrack struct {
	ID         int64
	PlaylistID int64
	TrackID    int64
}

func (p *PlaylistTrack) Table() Table   { return PlaylistTracksTable }
func (p *PlaylistTrack) SetID(id int64) { p.ID = id }
func (p *PlaylistTrack) Validate() error {
	if err := reference(PlaylistTracksTable.Name, "PlaylistId", p.PlaylistID); err != nil {
		return err
	}
	return reference(PlaylistTracksTable.Name, "TrackId", p.TrackID)
}
func (p *PlaylistTrack) Values() map[string]any {
	return withID(p.ID, map[string]any{"PlaylistId": p.PlaylistID, "TrackId": p.TrackID})
}

var (
	_ Entity = (*Artist)(nil)
	_ Entity = (*Genre)(nil)
	_ Entity = (*MediaType)(nil)
	_ Entity = (*Playlist)(nil)
	_ Entity = (*Album)(nil)
	_ Entity = (*Track)(nil)
	_ Entity = (*Employee)(nil)
	_ Entity = (*Customer)(nil)
	_ Entity = (*Invoice)(nil)
	_ Entity = (*InvoiceItem)(nil)
	_ Entity = (*PlaylistTrack)(nil)
	_ Entity = (*Row)(nil)
)
