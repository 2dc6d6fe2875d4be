// go-cc1120
// Copyright (c) 2025 The go-cc1120 Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-cc1120.
//
// go-cc1120 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-cc1120 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-cc1120; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package cc1120

import "github.com/orbital-obc/go-cc1120/internal/spiframe"

// Standard register space (0x00 - 0x2E)
const (
	RegIOCFG3           = 0x00
	RegIOCFG2           = 0x01
	RegIOCFG1           = 0x02
	RegIOCFG0           = 0x03
	RegSYNC3            = 0x04
	RegSYNC2            = 0x05
	RegSYNC1            = 0x06
	RegSYNC0            = 0x07
	RegSYNCCFG1         = 0x08
	RegSYNCCFG0         = 0x09
	RegDEVIATIONM       = 0x0A
	RegMODCFGDEVE       = 0x0B
	RegDCFILTCFG        = 0x0C
	RegPREAMBLECFG1     = 0x0D
	RegPREAMBLECFG0     = 0x0E
	RegFREQIFCFG        = 0x0F
	RegIQIC             = 0x10
	RegCHANBW           = 0x11
	RegMDMCFG1          = 0x12
	RegMDMCFG0          = 0x13
	RegSYMBOLRATE2      = 0x14
	RegSYMBOLRATE1      = 0x15
	RegSYMBOLRATE0      = 0x16
	RegAGCREF           = 0x17
	RegAGCCSTHR         = 0x18
	RegAGCGAINADJUST    = 0x19
	RegAGCCFG3          = 0x1A
	RegAGCCFG2          = 0x1B
	RegAGCCFG1          = 0x1C
	RegAGCCFG0          = 0x1D
	RegFIFOCFG          = 0x1E
	RegDEVADDR          = 0x1F
	RegSETTLINGCFG      = 0x20
	RegFSCFG            = 0x21
	RegWORCFG1          = 0x22
	RegWORCFG0          = 0x23
	RegWOREVENT0MSB     = 0x24
	RegWOREVENT0LSB     = 0x25
	RegPKTCFG2          = 0x26
	RegPKTCFG1          = 0x27
	RegPKTCFG0          = 0x28
	RegRFENDCFG1        = 0x29
	RegRFENDCFG0        = 0x2A
	RegPACFG2           = 0x2B
	RegPACFG1           = 0x2C
	RegPACFG0           = 0x2D
	RegPKTLEN           = 0x2E
	ExtAddr             = spiframe.ExtAddr // Sentinel: first non-standard address
	FIFOAccessDirect    = spiframe.FIFODirect
	FIFOAccessStandard  = spiframe.FIFOStandard
	standardRegisterEnd = ExtAddr
)

// Extended register space, reached through ExtAddr
const (
	ExtIFMIXCFG       = 0x00
	ExtFREQOFFCFG     = 0x01
	ExtTOCCFG         = 0x02
	ExtMARCSPARE      = 0x03
	ExtECGCFG         = 0x04
	ExtCFMDATACFG     = 0x05
	ExtEXTCTRL        = 0x06
	ExtRCCALFINE      = 0x07
	ExtRCCALCOARSE    = 0x08
	ExtRCCALOFFSET    = 0x09
	ExtFREQOFF1       = 0x0A
	ExtFREQOFF0       = 0x0B
	ExtFREQ2          = 0x0C
	ExtFREQ1          = 0x0D
	ExtFREQ0          = 0x0E
	ExtIFADC2         = 0x0F
	ExtIFADC1         = 0x10
	ExtIFADC0         = 0x11
	ExtFSDIG1         = 0x12
	ExtFSDIG0         = 0x13
	ExtFSCAL3         = 0x14
	ExtFSCAL2         = 0x15
	ExtFSCAL1         = 0x16
	ExtFSCAL0         = 0x17
	ExtFSCHP          = 0x18
	ExtFSDIVTWO       = 0x19
	ExtFSDSM1         = 0x1A
	ExtFSDSM0         = 0x1B
	ExtFSDVC1         = 0x1C
	ExtFSDVC0         = 0x1D
	ExtFSLBI          = 0x1E
	ExtFSPFD          = 0x1F
	ExtFSPRE          = 0x20
	ExtFSREGDIVCML    = 0x21
	ExtFSSPARE        = 0x22
	ExtFSVCO4         = 0x23
	ExtFSVCO3         = 0x24
	ExtFSVCO2         = 0x25
	ExtFSVCO1         = 0x26
	ExtFSVCO0         = 0x27
	ExtGBIAS6         = 0x28
	ExtGBIAS5         = 0x29
	ExtGBIAS4         = 0x2A
	ExtGBIAS3         = 0x2B
	ExtGBIAS2         = 0x2C
	ExtGBIAS1         = 0x2D
	ExtGBIAS0         = 0x2E
	ExtIFAMP          = 0x2F
	ExtLNA            = 0x30
	ExtRXMIX          = 0x31
	ExtXOSC5          = 0x32
	ExtXOSC4          = 0x33
	ExtXOSC3          = 0x34
	ExtXOSC2          = 0x35
	ExtXOSC1          = 0x36
	ExtXOSC0          = 0x37
	ExtANALOGSPARE    = 0x38
	ExtPACFG3         = 0x39
	ExtWORTIME1       = 0x64
	ExtWORTIME0       = 0x65
	ExtWORCAPTURE1    = 0x66
	ExtWORCAPTURE0    = 0x67
	ExtBIST           = 0x68
	ExtDCFILTOFFSETI1 = 0x69
	ExtDCFILTOFFSETI0 = 0x6A
	ExtDCFILTOFFSETQ1 = 0x6B
	ExtDCFILTOFFSETQ0 = 0x6C
	ExtIQIEI1         = 0x6D
	ExtIQIEI0         = 0x6E
	ExtIQIEQ1         = 0x6F
	ExtIQIEQ0         = 0x70
	ExtRSSI1          = 0x71
	ExtRSSI0          = 0x72
	ExtMARCSTATE      = 0x73
	ExtLQIVAL         = 0x74
	ExtPQTSYNCERR     = 0x75
	ExtDEMSTATUS      = 0x76
	ExtFREQOFFEST1    = 0x77
	ExtFREQOFFEST0    = 0x78
	ExtAGCGAIN3       = 0x79
	ExtAGCGAIN2       = 0x7A
	ExtAGCGAIN1       = 0x7B
	ExtAGCGAIN0       = 0x7C
	ExtCFMRXDATAOUT   = 0x7D
	ExtCFMTXDATAIN    = 0x7E
	ExtASKSOFTRXDATA  = 0x7F
	ExtRNDGEN         = 0x80
	ExtMAGN2          = 0x81
	ExtMAGN1          = 0x82
	ExtMAGN0          = 0x83
	ExtANG1           = 0x84
	ExtANG0           = 0x85
	ExtCHFILTI2       = 0x86
	ExtCHFILTI1       = 0x87
	ExtCHFILTI0       = 0x88
	ExtCHFILTQ2       = 0x89
	ExtCHFILTQ1       = 0x8A
	ExtCHFILTQ0       = 0x8B
	ExtGPIOSTATUS     = 0x8C
	ExtFSCALCTRL      = 0x8D
	ExtPHASEADJUST    = 0x8E
	ExtPARTNUMBER     = 0x8F
	ExtPARTVERSION    = 0x90
	ExtSERIALSTATUS   = 0x91
	ExtMODEMSTATUS1   = 0x92
	ExtMODEMSTATUS0   = 0x93
	ExtMARCSTATUS1    = 0x94
	ExtMARCSTATUS0    = 0x95
	ExtPAIFAMPTEST    = 0x96
	ExtFSRFTEST       = 0x97
	ExtPRETEST        = 0x98
	ExtPREOVR         = 0x99
	ExtADCTEST        = 0x9A
	ExtDVCTEST        = 0x9B
	ExtATEST          = 0x9C
	ExtATESTLVDS      = 0x9D
	ExtATESTMODE      = 0x9E
	ExtXOSCTEST1      = 0x9F
	ExtXOSCTEST0      = 0xA0
	ExtRXFIRST        = 0xD2
	ExtTXFIRST        = 0xD3
	ExtRXLAST         = 0xD4
	ExtTXLAST         = 0xD5
	ExtNUMTXBYTES     = 0xD6
	ExtNUMRXBYTES     = 0xD7
	ExtFIFONUMTXBYTES = 0xD8
	ExtFIFONUMRXBYTES = 0xD9
)

// Command strobes
const (
	StrobeSRES    = 0x30 // Reset chip
	StrobeSFSTXON = 0x31 // Enable and calibrate frequency synthesizer
	StrobeSXOFF   = 0x32 // Enter XOFF state when CSn is deasserted
	StrobeSCAL    = 0x33 // Calibrate frequency synthesizer and turn it off
	StrobeSRX     = 0x34 // Enable RX
	StrobeSTX     = 0x35 // Enable TX
	StrobeSIDLE   = 0x36 // Exit RX/TX, turn off frequency synthesizer
	StrobeSAFC    = 0x37 // Automatic frequency compensation
	StrobeSWOR    = 0x38 // Start automatic RX polling sequence
	StrobeSPWD    = 0x39 // Enter SLEEP mode when CSn is deasserted
	StrobeSFRX    = 0x3A // Flush the RX FIFO
	StrobeSFTX    = 0x3B // Flush the TX FIFO
	StrobeSWORRST = 0x3C // Reset the eWOR timer
	StrobeSNOP    = 0x3D // No operation, returns the status byte
)

// FIFO memory layout for direct access
const (
	FIFOSize    = 128
	FIFOTXStart = 0x00
	FIFOTXEnd   = 0x7F
	FIFORXStart = 0x80
	FIFORXEnd   = 0xFF
)

// PartNumberCC1120 is the value of the PARTNUMBER register on a CC1120
const PartNumberCC1120 = 0x48

var strobeNames = map[byte]string{
	StrobeSRES:    "SRES",
	StrobeSFSTXON: "SFSTXON",
	StrobeSXOFF:   "SXOFF",
	StrobeSCAL:    "SCAL",
	StrobeSRX:     "SRX",
	StrobeSTX:     "STX",
	StrobeSIDLE:   "SIDLE",
	StrobeSAFC:    "SAFC",
	StrobeSWOR:    "SWOR",
	StrobeSPWD:    "SPWD",
	StrobeSFRX:    "SFRX",
	StrobeSFTX:    "SFTX",
	StrobeSWORRST: "SWORRST",
	StrobeSNOP:    "SNOP",
}

// StrobeName returns the mnemonic of a strobe opcode, or "" if cmd is not a
// strobe
func StrobeName(cmd byte) string {
	return strobeNames[cmd]
}

// StrobeByName looks up a strobe opcode by mnemonic
func StrobeByName(name string) (byte, bool) {
	for cmd, n := range strobeNames {
		if n == name {
			return cmd, true
		}
	}
	return 0, false
}

// IsStandardRegister reports whether addr can be accessed without the
// extended address prefix
func IsStandardRegister(addr byte) bool {
	return addr < standardRegisterEnd
}

// IsExtendedRegister reports whether addr lies outside the unused gaps of
// the extended register space
func IsExtendedRegister(addr byte) bool {
	switch {
	case addr > ExtPACFG3 && addr < ExtWORTIME1:
		return false
	case addr > ExtXOSCTEST0 && addr < ExtRXFIRST:
		return false
	case addr > ExtFIFONUMRXBYTES:
		return false
	default:
		return true
	}
}

// IsStrobe reports whether cmd is a command strobe
func IsStrobe(cmd byte) bool {
	return cmd >= StrobeSRES && cmd <= StrobeSNOP
}
