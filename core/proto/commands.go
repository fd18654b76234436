// Package proto is the static catalog for the R2000 "UHF RFID Reader Serial
// Interface Protocol": command codes, error codes, the per-command
// error-return policy, and the fixed enumerations (antenna IDs, memory
// banks, lock types, sessions, RF link profiles, ...) the rest of the
// driver is built from. Nothing in this package touches the wire or holds
// mutable state — it is an immutable table, consulted by core/frame,
// core/tag, and device/dispatch.
package proto

// Command is an R2000 command code.
type Command byte

// Command codes
const (
	CmdGetGPIO                          Command = 0x60
	CmdSetGPIO                          Command = 0x61
	CmdSetAntennaDetector                Command = 0x62
	CmdGetAntennaDetector                Command = 0x63
	CmdSetTemporaryOutputPower           Command = 0x66
	CmdSetIdentifier                     Command = 0x67
	CmdGetIdentifier                     Command = 0x68
	CmdSetRFLinkProfile                  Command = 0x69
	CmdGetRFLinkProfile                  Command = 0x6A
	CmdReset                             Command = 0x70
	CmdSetBaudRate                       Command = 0x71
	CmdGetFirmwareVersion                Command = 0x72
	CmdSetAddress                        Command = 0x73
	CmdSetWorkingAntenna                 Command = 0x74
	CmdGetWorkingAntenna                 Command = 0x75
	CmdSetOutputPower                    Command = 0x76
	CmdGetOutputPower                    Command = 0x77
	CmdSetFrequencyRegion                Command = 0x78
	CmdGetFrequencyRegion                Command = 0x79
	CmdSetBeeperMode                     Command = 0x7A
	CmdGetReaderTemperature              Command = 0x7B
	CmdSetDenseReaderMode                Command = 0x7C
	CmdGetDenseReaderMode                Command = 0x7D
	CmdGetRFPortReturnLoss               Command = 0x7E
	CmdGetAndResetInventoryBuffer        Command = 0x91
	CmdGetInventoryBufferTagCount        Command = 0x92
	CmdResetInventoryBuffer              Command = 0x93
	CmdInventory                         Command = 0x80
	CmdRead                              Command = 0x81
	CmdWrite                             Command = 0x82
	CmdLock                              Command = 0x83
	CmdKill                              Command = 0x84
	CmdSetAccessEPCMatch                 Command = 0x85
	CmdGetAccessEPCMatch                 Command = 0x86
	CmdRealTimeInventory                 Command = 0x89
	CmdFastSwitchAntInventory            Command = 0x8A
	CmdCustomizedSessionTargetInventory  Command = 0x8B
	CmdSetFastID                         Command = 0x8C
	CmdSetTemporaryFastID                Command = 0x8D
	CmdGetFastID                         Command = 0x8E
	CmdGetAntennaSwitchingSequence       Command = 0x8F
	CmdGetInventoryBuffer                Command = 0x90
	CmdWriteBlock                        Command = 0x94
	CmdGetOutputPower8P                  Command = 0x97
	CmdTagMask                           Command = 0x98
	CmdSetModuleFunction                 Command = 0xA0
	CmdGetModuleFunction                 Command = 0xA1
	CmdISO6BInventory                    Command = 0xB0
	CmdISO6BRead                         Command = 0xB1
	CmdISO6BWrite                        Command = 0xB2
	CmdISO6BLock                         Command = 0xB3
	CmdISO6BQueryLock                    Command = 0xB4
)

// ErrorPolicy classifies how a command's reply payload decides whether its
// first byte is an error code or data
type ErrorPolicy int

const (
	// PolicyNo: the first payload byte is always data.
	PolicyNo ErrorPolicy = iota
	// PolicyYes: the first payload byte is always an error code; success
	// iff the code equals ErrSuccess.
	PolicyYes
	// PolicyIfSingleByteData: the first payload byte is an error code iff
	// the payload is exactly one byte long (frame length == 4).
	PolicyIfSingleByteData
	// PolicySometimes: command-specific data-dependent classification; the
	// special cases (GET_RF_LINK_PROFILE, GET_RF_PORT_RETURN_LOSS,
	// TAG_MASK) are implemented by device/dispatch directly.
	PolicySometimes
)

// CommandInfo describes one command code for the catalog.
type CommandInfo struct {
	Code   Command
	Name   string
	Desc   string
	Policy ErrorPolicy
}

// commandTable is the static, immutable command catalog. It is the single
// source of truth for command names, descriptions, and error-return
// policy; device/dispatch must never branch on command identity outside
// the three documented PolicySometimes special cases.
var commandTable = map[Command]CommandInfo{
	CmdGetGPIO:                         {CmdGetGPIO, "GET_GPIO", "Read GPIO input levels", PolicyNo},
	CmdSetGPIO:                         {CmdSetGPIO, "SET_GPIO", "Set GPIO output level", PolicyYes},
	CmdSetAntennaDetector:              {CmdSetAntennaDetector, "SET_ANT_DET", "Set antenna detector sensitivity", PolicyYes},
	CmdGetAntennaDetector:              {CmdGetAntennaDetector, "GET_ANT_DET", "Read antenna detector sensitivity", PolicyNo},
	CmdSetTemporaryOutputPower:         {CmdSetTemporaryOutputPower, "SET_TEMP_POWER", "Set non-persistent output power", PolicyYes},
	CmdSetIdentifier:                   {CmdSetIdentifier, "SET_IDENT", "Set 12-byte reader identifier", PolicyYes},
	CmdGetIdentifier:                   {CmdGetIdentifier, "GET_IDENT", "Read 12-byte reader identifier", PolicyNo},
	CmdSetRFLinkProfile:                {CmdSetRFLinkProfile, "SET_RFLINK", "Set RF link profile", PolicyYes},
	CmdGetRFLinkProfile:                {CmdGetRFLinkProfile, "GET_RFLINK", "Read RF link profile", PolicySometimes},
	CmdReset:                           {CmdReset, "RESET", "Reset reader", PolicyYes},
	CmdSetBaudRate:                     {CmdSetBaudRate, "SET_BAUD", "Set UART baud rate code", PolicyYes},
	CmdGetFirmwareVersion:              {CmdGetFirmwareVersion, "GET_FW", "Read firmware version", PolicyNo},
	CmdSetAddress:                      {CmdSetAddress, "SET_ADDR", "Set reader RS-485 address", PolicyYes},
	CmdSetWorkingAntenna:               {CmdSetWorkingAntenna, "SET_WORK_ANT", "Select active antenna port", PolicyYes},
	CmdGetWorkingAntenna:               {CmdGetWorkingAntenna, "GET_WORK_ANT", "Read active antenna port", PolicyNo},
	CmdSetOutputPower:                  {CmdSetOutputPower, "SET_POWER", "Set output power", PolicyYes},
	CmdGetOutputPower:                  {CmdGetOutputPower, "GET_POWER", "Read output power (4 ports)", PolicyNo},
	CmdSetFrequencyRegion:              {CmdSetFrequencyRegion, "SET_FREQ", "Set frequency region/band", PolicyYes},
	CmdGetFrequencyRegion:              {CmdGetFrequencyRegion, "GET_FREQ", "Read frequency region/band", PolicyNo},
	CmdSetBeeperMode:                   {CmdSetBeeperMode, "SET_BEEPER", "Set beeper mode", PolicyYes},
	CmdGetReaderTemperature:            {CmdGetReaderTemperature, "GET_TEMP", "Read reader temperature", PolicyNo},
	CmdSetDenseReaderMode:              {CmdSetDenseReaderMode, "SET_DRM", "Set dense reader mode", PolicyYes},
	CmdGetDenseReaderMode:              {CmdGetDenseReaderMode, "GET_DRM", "Read dense reader mode", PolicyNo},
	CmdGetRFPortReturnLoss:             {CmdGetRFPortReturnLoss, "GET_RETLOSS", "Read RF port return loss", PolicySometimes},
	CmdInventory:                       {CmdInventory, "INVENTORY", "Start buffered inventory", PolicyIfSingleByteData},
	CmdRead:                            {CmdRead, "READ", "Read tag memory", PolicyIfSingleByteData},
	CmdWrite:                           {CmdWrite, "WRITE", "Write tag memory", PolicyIfSingleByteData},
	CmdLock:                            {CmdLock, "LOCK", "Lock tag memory", PolicyIfSingleByteData},
	CmdKill:                            {CmdKill, "KILL", "Kill tag", PolicyYes},
	CmdSetAccessEPCMatch:               {CmdSetAccessEPCMatch, "SET_EPC_MATCH", "Set access EPC match filter", PolicyYes},
	CmdGetAccessEPCMatch:               {CmdGetAccessEPCMatch, "GET_EPC_MATCH", "Read access EPC match filter", PolicyIfSingleByteData},
	CmdRealTimeInventory:               {CmdRealTimeInventory, "RT_INVENTORY", "Start real-time inventory", PolicyIfSingleByteData},
	CmdFastSwitchAntInventory:          {CmdFastSwitchAntInventory, "FS_ANT_INVENTORY", "Start fast-switch-antenna inventory", PolicyIfSingleByteData},
	CmdCustomizedSessionTargetInventory: {CmdCustomizedSessionTargetInventory, "SESSION_INVENTORY", "Start session/target inventory", PolicyIfSingleByteData},
	CmdSetFastID:                       {CmdSetFastID, "SET_FASTID", "Set persistent FastID mode", PolicyYes},
	CmdSetTemporaryFastID:              {CmdSetTemporaryFastID, "SET_SAVE_FASTID", "Set non-persistent FastID mode", PolicyYes},
	CmdGetFastID:                       {CmdGetFastID, "GET_FASTID", "Read FastID mode", PolicyNo},
	CmdGetAntennaSwitchingSequence:     {CmdGetAntennaSwitchingSequence, "GET_ANT_SEQ", "Read antenna switching sequence", PolicyNo},
	CmdGetInventoryBuffer:              {CmdGetInventoryBuffer, "GET_INV_BUF", "Read inventory buffer (no reset)", PolicyIfSingleByteData},
	CmdGetAndResetInventoryBuffer:      {CmdGetAndResetInventoryBuffer, "GET_RESET_INV_BUF", "Read and reset inventory buffer", PolicyIfSingleByteData},
	CmdGetInventoryBufferTagCount:      {CmdGetInventoryBufferTagCount, "GET_INV_CNT", "Read inventory buffer tag count", PolicyNo},
	CmdResetInventoryBuffer:            {CmdResetInventoryBuffer, "RESET_INV_BUF", "Reset inventory buffer", PolicyYes},
	CmdWriteBlock:                      {CmdWriteBlock, "WRITE_BLOCK", "Block-write tag memory", PolicyIfSingleByteData},
	CmdGetOutputPower8P:                {CmdGetOutputPower8P, "GET_POWER_8P", "Read output power (8 ports)", PolicyNo},
	CmdTagMask:                         {CmdTagMask, "TAG_MASK", "Set/clear/get tag mask", PolicySometimes},
	CmdSetModuleFunction:               {CmdSetModuleFunction, "SET_MODFN", "Set module function", PolicyYes},
	CmdGetModuleFunction:               {CmdGetModuleFunction, "GET_MODFN", "Read module function", PolicyNo},
	CmdISO6BInventory:                  {CmdISO6BInventory, "6B_INV", "Start ISO 18000-6B inventory", PolicyIfSingleByteData},
	CmdISO6BRead:                       {CmdISO6BRead, "6B_READ", "Read ISO 18000-6B tag", PolicyIfSingleByteData},
	CmdISO6BWrite:                      {CmdISO6BWrite, "6B_WRITE", "Write ISO 18000-6B tag", PolicyIfSingleByteData},
	CmdISO6BLock:                       {CmdISO6BLock, "6B_LOCK", "Lock ISO 18000-6B tag byte", PolicyIfSingleByteData},
	CmdISO6BQueryLock:                  {CmdISO6BQueryLock, "6B_QLOCK", "Query ISO 18000-6B tag lock byte", PolicyIfSingleByteData},
}

// Describe looks up a command's catalog entry.
func Describe(code Command) (CommandInfo, bool) {
	info, ok := commandTable[code]
	return info, ok
}

// IsKnown reports whether code is a recognized command.
func IsKnown(code Command) bool {
	_, ok := commandTable[code]
	return ok
}

// AccumulatorKind names the accumulator queue fed by a command whose
// success reply is preceded by a stream of records with no end-of-stream
// marker. The queues are named here so device/dispatch and device/queue
// share one source of truth.
type AccumulatorKind int

const (
	AccNone AccumulatorKind = iota
	AccMasks
	AccInventoryBuffer
	AccRead
	AccWrite
	AccLock
	AccKill
)

// minRecordLen is the shortest possible accumulator record across
// ParseBufferedRecord, ParseReadRecord, and ParseWriteLockKillRecord
// (count(2)+recLen(1)+pc(2)+crc(2)+3-byte tail, with a zero-length EPC).
// A payload shorter than this cannot be a record: it is a single-byte
// (or otherwise too-short) error-coded reply and must resolve as a
// plain reply instead of being swallowed as a partial accumulation.
const minRecordLen = 10

// AccumulatorKindOf reports which accumulator queue (if any) a command's
// replies feed, independent of any particular payload's length. Used by
// resync to know which queue to clear for a popped command, where no
// real payload is in hand to measure.
func AccumulatorKindOf(code Command) AccumulatorKind {
	switch code {
	case CmdGetInventoryBuffer, CmdGetAndResetInventoryBuffer:
		return AccInventoryBuffer
	case CmdTagMask:
		return AccMasks
	case CmdRead:
		return AccRead
	case CmdWrite, CmdWriteBlock:
		return AccWrite
	case CmdLock:
		return AccLock
	case CmdKill:
		return AccKill
	default:
		return AccNone
	}
}

// AccumulatorFor reports which accumulator queue (if any) a command's reply
// records feed, and whether a given payload length qualifies as a record
// belonging to that stream rather than a plain single-shot reply. A payload
// too short to be a record (shorter than minRecordLen, or TagMask's own
// 7-byte floor) is never routed to accumulation even if its command
// normally streams records: it is instead a single-byte error-coded reply
// and must resolve through the normal error-classification path.
func AccumulatorFor(code Command, payloadLen int) AccumulatorKind {
	kind := AccumulatorKindOf(code)
	if kind == AccNone {
		return AccNone
	}
	if kind == AccMasks {
		if payloadLen > 7 {
			return AccMasks
		}
		return AccNone
	}
	if payloadLen < minRecordLen {
		return AccNone
	}
	return kind
}
