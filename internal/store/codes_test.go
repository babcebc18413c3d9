package store

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/erazemk/knjiznica/internal/db"
	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/validator"
)

func TestListBookStatuses(t *testing.T) {
	database := db.NewTestDB(t)

	codes, err := ListBookStatuses(context.Background(), database)
	if err != nil {
		t.Fatalf("ListBookStatuses: %v", err)
	}
	if len(codes) != len(model.BookStatuses) {
		t.Fatalf("expected %d statuses, got %d", len(model.BookStatuses), len(codes))
	}
	if codes[0].Value != model.BookStatusAvailable || codes[0].Label != "Available" {
		t.Errorf("unexpected first status: %+v", codes[0])
	}
}

func TestListBookClasses(t *testing.T) {
	database := db.NewTestDB(t)

	codes, err := ListBookClasses(context.Background(), database)
	if err != nil {
		t.Fatalf("ListBookClasses: %v", err)
	}
	if len(codes) != 12 {
		t.Fatalf("expected 12 classes, got %d", len(codes))
	}
	if codes[0].Value != "BK" {
		t.Errorf("expected first class BK, got %q", codes[0].Value)
	}
}

func TestListMemberCodes(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	codes, _ := ListMemberCodes(ctx, database)
	if len(codes) != 0 {
		t.Errorf("expected no members, got %d", len(codes))
	}

	CreateMember(ctx, database, "0002", "Bojan", "Bojan Kralj")
	CreateMember(ctx, database, "0001", "Ana", "")

	codes, err := ListMemberCodes(ctx, database)
	if err != nil {
		t.Fatalf("ListMemberCodes: %v", err)
	}
	if len(codes) != 2 {
		t.Fatalf("expected 2 members, got %d", len(codes))
	}
	if codes[0].Value != "0001" || codes[0].Label != "Ana" {
		t.Errorf("unexpected first member: %+v", codes[0])
	}
}

func TestClassAndMemberExists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateMember(ctx, database, "0001", "Ana", "Ana Novak")

	tests := []struct {
		name  string
		check func() (bool, error)
		want  bool
	}{
		{"known class", func() (bool, error) { return ClassExists(ctx, database, "SC") }, true},
		{"unknown class", func() (bool, error) { return ClassExists(ctx, database, "XX") }, false},
		{"known member", func() (bool, error) { return MemberExists(ctx, database, "0001") }, true},
		{"unknown member", func() (bool, error) { return MemberExists(ctx, database, "9999") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.check()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestClassImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	data, _, err := GetClassImage(ctx, database, "DB")
	if err != nil {
		t.Fatalf("GetClassImage: %v", err)
	}
	if data != nil {
		t.Errorf("expected no image, got %d bytes", len(data))
	}

	img := []byte{0xff, 0xd8, 0xff, 0xe0}
	if err := SetClassImage(ctx, database, "DB", img, "image/jpeg"); err != nil {
		t.Fatalf("SetClassImage: %v", err)
	}

	data, mime, err := GetClassImage(ctx, database, "DB")
	if err != nil {
		t.Fatalf("GetClassImage: %v", err)
	}
	if !bytes.Equal(data, img) {
		t.Errorf("image data mismatch")
	}
	if mime != "image/jpeg" {
		t.Errorf("expected mime 'image/jpeg', got %q", mime)
	}
}

func TestSetClassImageUnknownClass(t *testing.T) {
	database := db.NewTestDB(t)

	err := SetClassImage(context.Background(), database, "XX", []byte{1}, "image/jpeg")
	if !errors.Is(err, ErrClassNotFound) {
		t.Errorf("expected ErrClassNotFound, got %v", err)
	}
}

func TestListClasses(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	SetClassImage(ctx, database, "MG", []byte{0xff, 0xd8}, "image/jpeg")

	classes, err := ListClasses(ctx, database)
	if err != nil {
		t.Fatalf("ListClasses: %v", err)
	}
	if len(classes) != 12 {
		t.Fatalf("expected 12 classes, got %d", len(classes))
	}
	for _, c := range classes {
		if c.HasImage != (c.ID == "MG") {
			t.Errorf("class %s: expected HasImage %v, got %v", c.ID, c.ID == "MG", c.HasImage)
		}
	}
}

func TestCheckBookReferences(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateMember(ctx, database, "0001", "Ana", "")

	tests := []struct {
		name    string
		classID string
		keeper  string
		want    []string
	}{
		{"all known", "DB", "0001", nil},
		{"empty keeper skipped", "DB", "", nil},
		{"empty class skipped", "", "", nil},
		{"unknown class", "XX", "", []string{"bookClassId"}},
		{"unknown keeper", "DB", "9999", []string{"bookKeeperId"}},
		{"both unknown", "XX", "9999", []string{"bookClassId", "bookKeeperId"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			if err := CheckBookReferences(ctx, database, v, tt.classID, tt.keeper); err != nil {
				t.Fatalf("CheckBookReferences: %v", err)
			}
			if len(v.Errors) != len(tt.want) {
				t.Fatalf("expected %d errors, got %v", len(tt.want), v.Errors)
			}
			for _, field := range tt.want {
				if _, ok := v.Errors[field]; !ok {
					t.Errorf("expected error for %s", field)
				}
			}
		})
	}

	t.Run("existing error kept", func(t *testing.T) {
		v := validator.New()
		v.AddError("bookClassId", "book class is required")
		CheckBookReferences(ctx, database, v, "XX", "")
		if v.Errors["bookClassId"] != "book class is required" {
			t.Errorf("expected original error kept, got %q", v.Errors["bookClassId"])
		}
	})
}
