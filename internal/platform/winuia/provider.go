//go:build windows

package winuia

import "github.com/uiactl/uiactl/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		monitors := Monitors{}
		return &platform.Provider{
			Automation: &Automation{},
			Inputter:   &Input{Monitors: monitors},
			Windows:    Windows{},
			Monitors:   monitors,
			Elevation:  &Elevation{},
		}, nil
	}
}
