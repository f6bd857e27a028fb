package devices

// Model names the container discipline of a build.
type Model string

// Device models.
const (
	// ModelStatic holds at most one device per category.
	ModelStatic Model = "static"

	// ModelDynamic holds any number of devices per category.
	ModelDynamic Model = "dyn"
)

// String returns the model name.
func (m Model) String() string {
	return string(m)
}

// DeviceModel returns the container discipline compiled into this build:
// ModelDynamic when built with the dyn tag, ModelStatic otherwise.
func DeviceModel() Model {
	return deviceModel
}
