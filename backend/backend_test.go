package backend_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/stem/backend"
	"github.com/gogpu/stem/backend/headless"
	"github.com/gogpu/stem/gpucore"
)

func TestRegistryRegisterAndOpen(t *testing.T) {
	// Headless backend is auto-registered via init()
	if !backend.IsRegistered(backend.BackendHeadless) {
		t.Fatal("headless backend should be auto-registered")
	}

	d, err := backend.Open(backend.BackendHeadless)
	if err != nil {
		t.Fatalf("Open(headless) error = %v", err)
	}
	if _, ok := d.(*headless.Driver); !ok {
		t.Errorf("Open(headless) = %T, want *headless.Driver", d)
	}
}

func TestRegistryOpenUnregistered(t *testing.T) {
	d, err := backend.Open("nonexistent")
	if !errors.Is(err, backend.ErrBackendNotAvailable) {
		t.Errorf("Open(nonexistent) error = %v, want ErrBackendNotAvailable", err)
	}
	if d != nil {
		t.Error("Open(nonexistent) should return nil")
	}
}

func TestRegistryOpenFactoryError(t *testing.T) {
	boom := errors.New("no context")
	backend.Register("test-failing", func() (gpucore.Driver, error) { return nil, boom })
	defer backend.Unregister("test-failing")

	if _, err := backend.Open("test-failing"); !errors.Is(err, boom) {
		t.Errorf("Open(test-failing) error = %v, want %v", err, boom)
	}
}

func TestRegistryAvailableSorted(t *testing.T) {
	backend.Register("aaa-test", func() (gpucore.Driver, error) { return headless.New(), nil })
	defer backend.Unregister("aaa-test")

	available := backend.Available()
	if !slices.IsSorted(available) {
		t.Errorf("Available() = %v, want sorted", available)
	}
	if !slices.Contains(available, backend.BackendHeadless) {
		t.Errorf("Available() = %v, should include %q", available, backend.BackendHeadless)
	}
}

func TestRegistryDefaultPriority(t *testing.T) {
	var opened []string
	backend.Register(backend.BackendGL, func() (gpucore.Driver, error) {
		opened = append(opened, backend.BackendGL)
		return nil, errors.New("no current GL context")
	})
	defer backend.Unregister(backend.BackendGL)
	backend.Register("aaa-test", func() (gpucore.Driver, error) {
		opened = append(opened, "aaa-test")
		return headless.New(), nil
	})
	defer backend.Unregister("aaa-test")

	d, name, err := backend.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if d == nil {
		t.Fatal("Default() returned nil")
	}
	// gl fails, so headless wins before names outside the priority list.
	if name != backend.BackendHeadless {
		t.Errorf("Default() name = %q, want %q", name, backend.BackendHeadless)
	}
	if want := []string{backend.BackendGL}; !slices.Equal(opened, want) {
		t.Errorf("opened %v, want %v", opened, want)
	}
}

func TestRegistryDefaultNoneOpen(t *testing.T) {
	backend.Unregister(backend.BackendHeadless)
	defer backend.Register(backend.BackendHeadless, func() (gpucore.Driver, error) { return headless.New(), nil })

	if len(backend.Available()) > 0 {
		t.Skip("other backends registered")
	}
	if _, _, err := backend.Default(); !errors.Is(err, backend.ErrBackendNotAvailable) {
		t.Errorf("Default() error = %v, want ErrBackendNotAvailable", err)
	}
}

func TestRegistryMustDefault(t *testing.T) {
	// Should not panic when headless backend is available
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("MustDefault() panicked: %v", r)
		}
	}()
	if d := backend.MustDefault(); d == nil {
		t.Error("MustDefault() returned nil")
	}
}

func TestRegistryUnregister(t *testing.T) {
	backend.Register("test-backend", func() (gpucore.Driver, error) { return headless.New(), nil })
	if !backend.IsRegistered("test-backend") {
		t.Error("test-backend should be registered")
	}

	backend.Unregister("test-backend")
	if backend.IsRegistered("test-backend") {
		t.Error("test-backend should be unregistered")
	}
}
