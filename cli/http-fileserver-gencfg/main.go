package main

import (
	"encoding/json"
	"os"

	"github.com/D-DSOLUTIONS/ddsolutions-webpage/extensions/fileserver"
	"github.com/sagernet/sing/common"
)

type Flags struct {
	Listen         string `json:"listen"`
	Port           uint16 `json:"port"`
	Root           string `json:"root,omitempty"`
	Index          string `json:"index"`
	MaxConnections int    `json:"max_connections"`
	LogLevel       string `json:"log_level"`
}

func main() {
	f := new(Flags)
	f.Listen = "::"
	f.Port = 8080
	if len(os.Args) > 1 {
		f.Root = os.Args[1]
	}
	f.Index = fileserver.DefaultIndex
	f.LogLevel = "info"

	c, err := json.MarshalIndent(f, "", "  ")
	common.Must(err)
	common.Must1(os.Stdout.Write(append(c, '\n')))
}
