package sites

import (
	"context"
	"io"
	"testing"

	"github.com/mwickstrom1817/5gjobs/internal/document"
	pkgerrors "github.com/mwickstrom1817/5gjobs/pkg/errors"
	"github.com/mwickstrom1817/5gjobs/pkg/logger"
)

type fakeStore struct {
	doc document.Document
}

func (f *fakeStore) Load(_ context.Context) (document.Document, error) {
	doc := f.doc
	doc.ApplyDefaults()
	return doc, nil
}

func (f *fakeStore) Save(_ context.Context, doc document.Document) error {
	f.doc = doc
	return nil
}

func createSitesTest(t *testing.T) (Service, *fakeStore) {
	t.Helper()
	store := &fakeStore{}
	store.doc.ApplyDefaults()

	svc, err := NewService(ServiceParams{
		Store:  store,
		Logger: logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		NewID:  func() string { return "l1" },
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func TestMapURL(t *testing.T) {
	got := MapURL("1 Plant Rd, Pittsburgh PA")
	want := "https://www.google.com/maps/search/?api=1&query=1+Plant+Rd%2C+Pittsburgh+PA"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if MapURL("") != "" {
		t.Fatal("empty address should have no map link")
	}
}

func TestCreate_buildsMapURL(t *testing.T) {
	svc, _ := createSitesTest(t)

	location, err := svc.Create(context.Background(), CreateLocationInput{Name: "North Plant", Address: "1 Plant Rd"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if location.MapURL != MapURL("1 Plant Rd") {
		t.Fatalf("unexpected map url: %q", location.MapURL)
	}
	if location.Lat != nil || location.Lon != nil {
		t.Fatal("new location must start unresolved")
	}
}

func TestCreate_requiresName(t *testing.T) {
	svc, _ := createSitesTest(t)

	_, err := svc.Create(context.Background(), CreateLocationInput{Address: "1 Plant Rd"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdate_addressChangeDropsCoordinates(t *testing.T) {
	svc, store := createSitesTest(t)
	lat, lon := 40.44, -79.99
	store.doc.Locations = []document.Location{
		{ID: "l1", Name: "North Plant", Address: "1 Plant Rd", Lat: &lat, Lon: &lon},
	}

	address := "2 Plant Rd"
	updated, err := svc.Update(context.Background(), "l1", UpdateLocationInput{Address: &address})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Lat != nil || updated.Lon != nil {
		t.Fatalf("coordinates must reset on address change: %+v", updated)
	}
	if updated.MapURL != MapURL("2 Plant Rd") {
		t.Fatalf("map url not recomputed: %q", updated.MapURL)
	}

	// A rename alone keeps the cache.
	name := "South Plant"
	store.doc.Locations[0].Lat = &lat
	store.doc.Locations[0].Lon = &lon
	renamed, err := svc.Update(context.Background(), "l1", UpdateLocationInput{Name: &name})
	if err != nil {
		t.Fatalf("rename Update: %v", err)
	}
	if renamed.Lat == nil || renamed.Lon == nil {
		t.Fatal("rename must not drop coordinates")
	}
}

func TestDelete_unknownLocationFails(t *testing.T) {
	svc, _ := createSitesTest(t)

	err := svc.Delete(context.Background(), "nope")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
