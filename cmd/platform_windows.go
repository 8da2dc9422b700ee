package cmd

// Registers the Windows UI Automation provider.
import _ "github.com/uiactl/uiactl/internal/platform/winuia"
