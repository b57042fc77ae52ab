package main

import (
	"github.com/leingang/ps2vcard/cmd/ps2vcard/commands"
	"github.com/leingang/ps2vcard/lib/osutil"
)

func main() {
	commands.ExecuteContext(osutil.SignalContext())
}
