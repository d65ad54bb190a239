package glbuild

import (
	"fmt"
	"io"

	"github.com/chewxy/math32"
	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/glgl/math/ms1"
)

// ShaderInterfaceType selects which node inputs are published as uniforms.
type ShaderInterfaceType int

const (
	// InterfaceComplete publishes all editable unconnected inputs as uniforms.
	InterfaceComplete ShaderInterfaceType = iota
	// InterfaceReduced inlines unconnected inputs as literals.
	InterfaceReduced
)

// SpecularEnvironmentMethod selects the indirect specular lighting algorithm.
type SpecularEnvironmentMethod int

const (
	SpecularEnvironmentNone SpecularEnvironmentMethod = iota
	// SpecularEnvironmentFIS uses filtered importance sampling of the radiance map.
	SpecularEnvironmentFIS
	// SpecularEnvironmentPrefilter uses a prefiltered radiance map.
	SpecularEnvironmentPrefilter
)

func (m SpecularEnvironmentMethod) String() string {
	switch m {
	case SpecularEnvironmentNone:
		return "none"
	case SpecularEnvironmentFIS:
		return "fis"
	case SpecularEnvironmentPrefilter:
		return "prefilter"
	}
	return fmt.Sprintf("SpecularEnvironmentMethod(%d)", int(m))
}

// DirectionalAlbedoMethod selects how directional albedo is computed.
type DirectionalAlbedoMethod int

const (
	DirectionalAlbedoAnalytic DirectionalAlbedoMethod = iota
	DirectionalAlbedoTable
	DirectionalAlbedoMonteCarlo
)

// TransmissionRenderMethod selects how BSDF transmission is rendered.
type TransmissionRenderMethod int

const (
	// TransmissionRefraction adds transmitted radiance to the surface color.
	TransmissionRefraction TransmissionRenderMethod = iota
	// TransmissionOpacity adds transmission to the surface transparency.
	TransmissionOpacity
)

// Options control code generation. The zero value is not the default,
// use [DefaultOptions].
type Options struct {
	ShaderInterfaceType ShaderInterfaceType `toml:"shader_interface_type"`
	// TargetColorSpaceOverride names the working color space of the renderer.
	TargetColorSpaceOverride string `toml:"target_color_space_override"`
	// FileTextureVerticalFlip flips image v coordinates.
	FileTextureVerticalFlip bool `toml:"file_texture_vertical_flip"`

	HwTransparency bool `toml:"hw_transparency"`
	// HwAlphaThreshold is the alpha below which transparent pixels are discarded.
	HwAlphaThreshold            float32                   `toml:"hw_alpha_threshold"`
	HwSpecularEnvironmentMethod SpecularEnvironmentMethod `toml:"hw_specular_environment_method"`
	HwDirectionalAlbedoMethod   DirectionalAlbedoMethod   `toml:"hw_directional_albedo_method"`
	HwTransmissionRenderMethod  TransmissionRenderMethod  `toml:"hw_transmission_render_method"`
	// HwWriteAlbedoTable replaces the material output with the directional albedo table.
	HwWriteAlbedoTable bool `toml:"hw_write_albedo_table"`
	// HwWriteDepthMoments replaces the material output with shadow depth moments.
	HwWriteDepthMoments bool `toml:"hw_write_depth_moments"`
	HwShadowMap         bool `toml:"hw_shadow_map"`
	HwAmbientOcclusion  bool `toml:"hw_ambient_occlusion"`
	// HwMaxActiveLightSources is the size of the light data array. Zero disables light loops.
	HwMaxActiveLightSources uint32 `toml:"hw_max_active_light_sources"`
	HwMaxRadianceSamples    int    `toml:"hw_max_radiance_samples"`
}

// DefaultOptions returns the default generation options.
func DefaultOptions() Options {
	return Options{
		ShaderInterfaceType:         InterfaceComplete,
		HwAlphaThreshold:            0.001,
		HwSpecularEnvironmentMethod: SpecularEnvironmentFIS,
		HwDirectionalAlbedoMethod:   DirectionalAlbedoAnalytic,
		HwMaxActiveLightSources:     3,
		HwMaxRadianceSamples:        16,
	}
}

// LoadOptions decodes TOML formatted options from r on top of [DefaultOptions].
// Unknown keys are an error.
func LoadOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		return Options{}, fmt.Errorf("decoding options: %w", err)
	}
	return opts, opts.Validate()
}

// Validate checks the options select recognized modes. Errors wrap [ErrConfig].
func (opts Options) Validate() error {
	switch {
	case opts.ShaderInterfaceType != InterfaceComplete && opts.ShaderInterfaceType != InterfaceReduced:
		return fmt.Errorf("%w: invalid shader interface type %d", ErrConfig, opts.ShaderInterfaceType)
	case opts.HwSpecularEnvironmentMethod < SpecularEnvironmentNone || opts.HwSpecularEnvironmentMethod > SpecularEnvironmentPrefilter:
		return fmt.Errorf("%w: invalid hardware specular environment method specified: '%d'", ErrConfig, opts.HwSpecularEnvironmentMethod)
	case opts.HwDirectionalAlbedoMethod < DirectionalAlbedoAnalytic || opts.HwDirectionalAlbedoMethod > DirectionalAlbedoMonteCarlo:
		return fmt.Errorf("%w: invalid directional albedo method %d", ErrConfig, opts.HwDirectionalAlbedoMethod)
	case opts.HwTransmissionRenderMethod != TransmissionRefraction && opts.HwTransmissionRenderMethod != TransmissionOpacity:
		return fmt.Errorf("%w: invalid transmission render method %d", ErrConfig, opts.HwTransmissionRenderMethod)
	case math32.IsNaN(opts.HwAlphaThreshold):
		return fmt.Errorf("%w: alpha threshold is NaN", ErrConfig)
	case opts.HwMaxRadianceSamples < 1:
		return fmt.Errorf("%w: max radiance samples must be positive, got %d", ErrConfig, opts.HwMaxRadianceSamples)
	}
	return nil
}

// AlphaThreshold returns the alpha threshold clamped to [0,1].
func (opts Options) AlphaThreshold() float32 {
	return ms1.Clamp(opts.HwAlphaThreshold, 0, 1)
}
