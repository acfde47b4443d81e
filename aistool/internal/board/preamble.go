// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

import "github.com/embeddedgo/ais/aistool/internal/ais"

// Default preambles for the OMAP-L138 board the tool was first used with.
// Adjust the PLL and mDDR/DDR2 configuration to your board using a board file.

var nandPreamble = ais.Preamble{
	ais.Magic,
	ais.OpFunctionExecute,
	0x00020000, // PLL0, 2 args
	0x00180001,
	0x00000205,
	ais.OpFunctionExecute,
	0x00080003, // mDDR/DDR2 controller, 8 args
	0x20020001,
	0x00000002,
	0x000000c4,
	0x02074622,
	0x129129c8,
	0x380f7000,
	0x0000040d,
	0x00000500,
	ais.OpFunctionExecute,
	0x00050005, // EMIFA async, 5 args
	0x00000000,
	0x081221ac,
	0x00000000,
	0x00000000,
	0x00000002,
}

var uartPreamble = ais.Preamble{
	ais.Magic,
	ais.OpFunctionExecute,
	0x00030006, // PLL and clock, 3 args
	0x00180001,
	0x00000b05,
	0x00010064,
	ais.OpFunctionExecute,
	0x00080003, // mDDR/DDR2 controller, 8 args
	0x18010101,
	0x00000002,
	0x00000003,
	0x06074622,
	0x20da3291,
	0x42948941,
	0x00000492,
	0x00000500,
}
