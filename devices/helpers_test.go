package devices

import (
	"iter"

	"github.com/stretchr/testify/mock"

	"github.com/ardnew/softdrv/driver"
	"github.com/ardnew/softdrv/driver/dummy"
)

// fakeNet is a network driver with a settable name and reported type.
type fakeNet struct {
	dummy.Net
	name string
	typ  driver.DeviceType
}

func newFakeNet(name string) *fakeNet {
	return &fakeNet{name: name, typ: driver.Net}
}

func (f *fakeNet) DeviceType() driver.DeviceType { return f.typ }
func (f *fakeNet) DeviceName() string { return f.name }

// fakeDisplay is a display driver with a settable name.
type fakeDisplay struct {
	dummy.Display
	name string
}

func (f *fakeDisplay) DeviceName() string { return f.name }

// mockBus is a Bus whose name and sequence are set by expectations.
type mockBus struct {
	mock.Mock
}

func (m *mockBus) Name() string {
	return m.Called().String(0)
}

func (m *mockBus) Probe() iter.Seq2[Device, error] {
	return m.Called().Get(0).(iter.Seq2[Device, error])
}

type entry struct {
	dev Device
	err error
}

func seqOf(entries ...entry) iter.Seq2[Device, error] {
	return func(yield func(Device, error) bool) {
		for _, e := range entries {
			if !yield(e.dev, e.err) {
				return
			}
		}
	}
}

func newMockBus(name string, entries ...entry) *mockBus {
	b := &mockBus{}
	b.On("Name").Return(name)
	b.On("Probe").Return(seqOf(entries...)).Once()
	return b
}

func fixedDriver(name string, dev Device) Driver {
	return Driver{
		Name:  name,
		Type:  dev.Type(),
		Probe: func() (Device, error) { return dev, nil },
	}
}

func failingDriver(name string, t driver.DeviceType, err error) Driver {
	return Driver{
		Name:  name,
		Type:  t,
		Probe: func() (Device, error) { return nil, err },
	}
}

// closableNet is a fakeNet that counts Close calls.
type closableNet struct {
	*fakeNet
	closed int
}

func (c *closableNet) Close() error {
	c.closed++
	return nil
}
