package banner

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"plstrack/pkg/config"
)

const banner = `
██████╗ ██╗     ███████╗████████╗██████╗  █████╗  ██████╗██╗  ██╗
██╔══██╗██║     ██╔════╝╚══██╔══╝██╔══██╗██╔══██╗██╔════╝██║ ██╔╝
██████╔╝██║     ███████╗   ██║   ██████╔╝███████║██║     █████╔╝
██╔═══╝ ██║     ╚════██║   ██║   ██╔══██╗██╔══██║██║     ██╔═██╗
██║     ███████╗███████║   ██║   ██║  ██║██║  ██║╚██████╗██║  ██╗
╚═╝     ╚══════╝╚══════╝   ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝
`

// PrintWithEff prints the startup banner using the effective config.
func PrintWithEff(eff config.EffectiveConfigResult, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:    %s\n", eff.Addr)
	fmt.Printf("DB Path:   %s (%s)\n", eff.DBPath, dbSize(eff.DBPath))
	if version != "" {
		fmt.Printf("Version:   %s\n", version)
	}
	fmt.Printf("Config:    %s\n", eff.Source)
	if eff.Config != nil {
		c := eff.Config
		fmt.Printf("Chat:      %s (primary %s, secondary %s)\n", c.Chat.BaseURL, c.Chat.PrimaryRoom, c.Chat.SecondaryRoom)
		if c.Chat.Debug {
			fmt.Printf("Debug:     ON - all requests go to sandbox room %s\n", c.Chat.SandboxRoom)
		}
		fmt.Printf("Retention: %s (enabled: %v)\n", c.Retention.Window.Std(), c.Retention.Enabled)
	}
	fmt.Println("\n== Examples ===================================================")
	fmt.Printf("curl -X POST 'http://localhost%s/v1/requests/preview' -d '{\"context\":{...},\"selection\":{...}}'\n", eff.Addr)
	fmt.Printf("curl 'http://localhost%s/v1/revisits/due'\n", eff.Addr)
}

// dbSize reports the on-disk size of the database directory, best-effort.
func dbSize(path string) string {
	if path == "" || path == ":memory:" {
		return "in-memory"
	}
	var total uint64
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if fi, err := d.Info(); err == nil {
			total += uint64(fi.Size())
		}
		return nil
	})
	return humanize.Bytes(total)
}
