// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package model

const (
	PIN_CLK   = "clk"
	PIN_RST_N = "rst_n"
)

// Instruction-side AHB-Lite bus
const (
	PIN_I_HREADY = "i_hready"
	PIN_I_HADDR  = "i_haddr"
	PIN_I_HTRANS = "i_htrans"
	PIN_I_HRDATA = "i_hrdata"
)

// Data-side AHB-Lite bus
const (
	PIN_D_HREADY = "d_hready"
	PIN_D_HADDR  = "d_haddr"
	PIN_D_HWRITE = "d_hwrite"
	PIN_D_HSIZE  = "d_hsize"
	PIN_D_HTRANS = "d_htrans"
	PIN_D_HWDATA = "d_hwdata"
	PIN_D_HRDATA = "d_hrdata"
)

// Debug module interface, APB-style
const (
	PIN_DMI_PADDR   = "dmi_paddr"
	PIN_DMI_PWDATA  = "dmi_pwdata"
	PIN_DMI_PSEL    = "dmi_psel"
	PIN_DMI_PWRITE  = "dmi_pwrite"
	PIN_DMI_PENABLE = "dmi_penable"
	PIN_DMI_PRDATA  = "dmi_prdata"
)

const (
	HTRANS_IDLE   uint32 = 0b00
	HTRANS_BUSY   uint32 = 0b01
	HTRANS_NONSEQ uint32 = 0b10
	HTRANS_SEQ    uint32 = 0b11
)

// Pins of the reference core, in declaration order
var CorePins = []Pin{
	{PIN_CLK, 1, PIN_IN},
	{PIN_RST_N, 1, PIN_IN},

	{PIN_I_HREADY, 1, PIN_IN},
	{PIN_I_HADDR, 32, PIN_OUT},
	{PIN_I_HTRANS, 2, PIN_OUT},
	{PIN_I_HRDATA, 32, PIN_IN},

	{PIN_D_HREADY, 1, PIN_IN},
	{PIN_D_HADDR, 32, PIN_OUT},
	{PIN_D_HWRITE, 1, PIN_OUT},
	{PIN_D_HSIZE, 3, PIN_OUT},
	{PIN_D_HTRANS, 2, PIN_OUT},
	{PIN_D_HWDATA, 32, PIN_OUT},
	{PIN_D_HRDATA, 32, PIN_IN},

	{PIN_DMI_PADDR, 32, PIN_IN},
	{PIN_DMI_PWDATA, 32, PIN_IN},
	{PIN_DMI_PSEL, 1, PIN_IN},
	{PIN_DMI_PWRITE, 1, PIN_IN},
	{PIN_DMI_PENABLE, 1, PIN_IN},
	{PIN_DMI_PRDATA, 32, PIN_OUT},
}
