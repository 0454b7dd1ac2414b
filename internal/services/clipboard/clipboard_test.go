package clipboard

import (
	"errors"
	"testing"
)

func TestServiceCopy(t *testing.T) {
	var captured string
	service := &Service{write: func(text string) error {
		captured = text
		return nil
	}}
	if err := service.Copy("项目结构：\nproj/"); err != nil {
		t.Fatalf("Copy error: %v", err)
	}
	if captured != "项目结构：\nproj/" {
		t.Fatalf("unexpected clipboard content %q", captured)
	}
}

func TestServiceCopyErrors(t *testing.T) {
	writeErr := errors.New("xclip missing")
	failing := &Service{write: func(string) error { return writeErr }}
	if err := failing.Copy("text"); !errors.Is(err, writeErr) {
		t.Fatalf("expected wrapped write error, got %v", err)
	}

	unsupported := &Service{write: func(string) error {
		t.Fatalf("write must not be called when unsupported")
		return nil
	}, unsupported: true}
	if err := unsupported.Copy("text"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
