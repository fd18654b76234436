package proto

// Antenna is an antenna port selector as carried on the wire: ports are
// named 1-based but encoded 0-based (A1=0x00 .. A8=0x07)
type Antenna byte

const (
	Antenna1   Antenna = 0x00
	Antenna2   Antenna = 0x01
	Antenna3   Antenna = 0x02
	Antenna4   Antenna = 0x03
	Antenna5   Antenna = 0x04
	Antenna6   Antenna = 0x05
	Antenna7   Antenna = 0x06
	Antenna8   Antenna = 0x07
	AntennaOff Antenna = 0xFF
)

// FrequencyRegion selects the regulatory band
type FrequencyRegion byte

const (
	RegionFCC    FrequencyRegion = 0x01
	RegionETSI   FrequencyRegion = 0x02
	RegionCHN    FrequencyRegion = 0x03
	RegionCustom FrequencyRegion = 0x04
)

// DefaultFrequencyIndexRange returns the region-appropriate default start
// and end frequency table indexes for SetRegionFrequencyBand.
func DefaultFrequencyIndexRange(region FrequencyRegion) (start, end byte, ok bool) {
	switch region {
	case RegionFCC:
		return 7, 59, true
	case RegionETSI:
		return 0, 6, true
	case RegionCHN:
		return 43, 53, true
	default:
		return 0, 0, false
	}
}

// MemoryBank is an EPC C1G2 tag memory bank
type MemoryBank byte

const (
	BankReserved MemoryBank = 0x00
	BankEPC      MemoryBank = 0x01
	BankTID      MemoryBank = 0x02
	BankUser     MemoryBank = 0x03
)

// LockBank is a lockable EPC C1G2 memory region Note
// this enumeration's wire values differ from MemoryBank.
type LockBank byte

const (
	LockBankReserved  LockBank = 0x00
	LockBankUser      LockBank = 0x01
	LockBankTID       LockBank = 0x02
	LockBankEPC       LockBank = 0x03
	LockBankAccessPwd LockBank = 0x04
	LockBankKillPwd   LockBank = 0x05
)

// LockType is the lock action applied to a LockBank
type LockType byte

const (
	LockOpen           LockType = 0x00
	LockLock           LockType = 0x01
	LockPermanentOpen  LockType = 0x02
	LockPermanentLock  LockType = 0x03
)

// BeeperMode selects the reader's audible feedback mode
type BeeperMode byte

const (
	BeeperQuiet     BeeperMode = 0x00
	BeeperInventory BeeperMode = 0x01
	BeeperTag       BeeperMode = 0x02
)

// Session is an EPC C1G2 session identifier
type Session byte

const (
	SessionS0 Session = 0x00
	SessionS1 Session = 0x01
	SessionS2 Session = 0x02
	SessionS3 Session = 0x03
)

// InventoriedFlag is the EPC C1G2 inventoried flag (A/B)
type InventoriedFlag byte

const (
	FlagA InventoriedFlag = 0x00
	FlagB InventoriedFlag = 0x01
)

// RFLinkProfile selects a vendor RF link profile
type RFLinkProfile byte

const (
	ProfileP0 RFLinkProfile = 0xD0
	ProfileP1 RFLinkProfile = 0xD1
	ProfileP2 RFLinkProfile = 0xD2
	ProfileP3 RFLinkProfile = 0xD3
)

// IsValidRFLinkProfile reports whether code is one of the four defined
// profiles; GET_RF_LINK_PROFILE's PolicySometimes classification depends
// on this.
func IsValidRFLinkProfile(code byte) bool {
	switch RFLinkProfile(code) {
	case ProfileP0, ProfileP1, ProfileP2, ProfileP3:
		return true
	default:
		return false
	}
}

// FastIDMode toggles the Monza FastID/FastTID extension
type FastIDMode byte

const (
	FastIDDisabled FastIDMode = 0x00
	FastIDEnabled  FastIDMode = 0x8D
)

// PhaseMode selects whether inventory sighting payloads carry a trailing
// RF phase angle field This is host-side engine
// state, not a wire enum, but it is cataloged here alongside the other
// inventory-shaping flags.
type PhaseMode byte

const (
	PhaseOff PhaseMode = 0x00
	PhaseOn  PhaseMode = 0x01
)

// BaudCode maps a UART baud rate to its SET_BAUD wire code. ok is false
// for unsupported rates.
func BaudCode(bps int) (code byte, ok bool) {
	switch bps {
	case 38400:
		return 3, true
	case 115200:
		return 4, true
	default:
		return 0, false
	}
}

// BaudRate is the inverse of BaudCode.
func BaudRate(code byte) (bps int, ok bool) {
	switch code {
	case 3:
		return 38400, true
	case 4:
		return 115200, true
	default:
		return 0, false
	}
}

// ModuleFunction selects the reader's boot-time operating mode. The
// vendor enumerates more values than this driver names explicitly;
// unrecognized codes are passed through as raw bytes rather than
// rejected, since the set is reader-firmware-specific.
type ModuleFunction byte

const (
	ModuleFunctionStandard ModuleFunction = 0x00
	ModuleFunctionWiegand  ModuleFunction = 0x01
	ModuleFunctionBurnIn   ModuleFunction = 0x02
)
