package tag

import (
	"fmt"

	"github.com/impinj-r2000/r2000driver/core/codec"
)

// BufferedRecord is one decoded record from a GET_INVENTORY_BUFFER /
// GET_AND_RESET_INVENTORY_BUFFER reply stream.
type BufferedRecord struct {
	TotalCount int // unique tag count carried by this record, data[0..2] BE
	PC         uint16
	EPC        []byte
	CRCValid   bool
	RSSIDBm    int
	Antenna    int
	Frequency  int
	TagCount   byte // per-tag inventory count, data[-1]
}

// ParseBufferedRecord decodes one buffered-inventory record: data[0..2]
// total unique tag count (BE), data[2] single-record length byte,
// data[3..5] PC, data[5..-5] EPC, data[-5..-3] CRC-16, data[-3] raw
// RSSI, data[-2] antenna+frequency pack, data[-1] per-tag inventory
// count.
func ParseBufferedRecord(data []byte) (BufferedRecord, error) {
	// Minimum: count(2) + recLen(1) + pc(2) + crc(2) + rssi(1) + pack(1) + tagCount(1) = 10.
	if len(data) < 10 {
		return BufferedRecord{}, fmt.Errorf("tag: buffered record too short: %d bytes", len(data))
	}

	totalCount := int(codec.BE16(data[0:2]))
	pc := codec.BE16(data[3:5])

	epcEnd := len(data) - 5
	epc := make([]byte, epcEnd-5)
	copy(epc, data[5:epcEnd])

	wireCRC := codec.BE16(data[len(data)-5 : len(data)-3])
	crcValid := codec.ValidateTagCRC(data[3:len(data)-5], wireCRC)

	rssiByte := data[len(data)-3]
	packByte := data[len(data)-2]

	rec := BufferedRecord{
		TotalCount: totalCount,
		PC:         pc,
		EPC:        epc,
		CRCValid:   crcValid,
		RSSIDBm:    int(rssiByte&0x7F) + rssiOffsetDBm,
		Antenna:    int(packByte&0x03) + 1,
		Frequency:  int(packByte&0xFC) >> 2,
		TagCount:   data[len(data)-1],
	}
	return rec, nil
}

// InventorySummary is the terminal reply to a buffered INVENTORY command:
// {antenna, tagCount, readRate, totalRead}.
type InventorySummary struct {
	Antenna   byte
	TagCount  uint16
	ReadRate  uint16
	TotalRead uint32
}

// ParseInventorySummary decodes the INVENTORY command's summary reply.
func ParseInventorySummary(data []byte) (InventorySummary, error) {
	if len(data) < 9 {
		return InventorySummary{}, fmt.Errorf("tag: inventory summary too short: %d bytes", len(data))
	}
	return InventorySummary{
		Antenna:   data[0],
		TagCount:  codec.BE16(data[1:3]),
		ReadRate:  codec.BE16(data[3:5]),
		TotalRead: codec.BE32(data[5:9]),
	}, nil
}

// ReadRecord is one decoded record from a READ reply stream: like
// BufferedRecord but with an additional trailing data region.
type ReadRecord struct {
	TotalCount int
	PC         uint16
	EPC        []byte
	CRCValid   bool
	Data       []byte
	Antenna    int
	Frequency  int
	TagCount   byte
}

// ParseReadRecord decodes one READ reply record.
func ParseReadRecord(data []byte) (ReadRecord, error) {
	// Minimum: count(2) + recLen(1) + pc(2) + crc(2) + dataLen(1) + pack(1) + tagCount(1) = 10,
	// plus the variable-length data region itself.
	if len(data) < 10 {
		return ReadRecord{}, fmt.Errorf("tag: read record too short: %d bytes", len(data))
	}

	totalCount := int(codec.BE16(data[0:2]))
	pc := codec.BE16(data[3:5])

	dataLen := int(data[len(data)-3])
	tail := 5 // crc(2) + dataLen(1) + pack(1) + tagCount(1)
	epcEnd := len(data) - tail - dataLen
	if epcEnd < 5 {
		return ReadRecord{}, fmt.Errorf("tag: read record data length %d inconsistent with frame", dataLen)
	}

	epc := make([]byte, epcEnd-5)
	copy(epc, data[5:epcEnd])

	wireCRC := codec.BE16(data[epcEnd : epcEnd+2])
	crcValid := codec.ValidateTagCRC(data[3:epcEnd], wireCRC)

	readData := make([]byte, dataLen)
	copy(readData, data[epcEnd+2:epcEnd+2+dataLen])

	packByte := data[len(data)-2]

	rec := ReadRecord{
		TotalCount: totalCount,
		PC:         pc,
		EPC:        epc,
		CRCValid:   crcValid,
		Data:       readData,
		Antenna:    int(packByte&0x03) + 1,
		Frequency:  int(packByte&0xFC) >> 2,
		TagCount:   data[len(data)-1],
	}
	return rec, nil
}

// WriteLockKillRecord is one decoded record from a WRITE, WRITE_BLOCK,
// LOCK, or KILL reply stream: PC+EPC+CRC as in
// BufferedRecord; data[-3] is a per-record error code, data[-2]
// antenna+frequency, data[-1] retry count.
type WriteLockKillRecord struct {
	TotalCount int
	PC         uint16
	EPC        []byte
	CRCValid   bool
	ErrorCode  byte
	Antenna    int
	Frequency  int
	RetryCount byte
}

// ParseWriteLockKillRecord decodes one WRITE/WRITE_BLOCK/LOCK/KILL reply
// record.
func ParseWriteLockKillRecord(data []byte) (WriteLockKillRecord, error) {
	if len(data) < 10 {
		return WriteLockKillRecord{}, fmt.Errorf("tag: write/lock/kill record too short: %d bytes", len(data))
	}

	totalCount := int(codec.BE16(data[0:2]))
	pc := codec.BE16(data[3:5])

	epcEnd := len(data) - 5
	epc := make([]byte, epcEnd-5)
	copy(epc, data[5:epcEnd])

	wireCRC := codec.BE16(data[len(data)-5 : len(data)-3])
	crcValid := codec.ValidateTagCRC(data[3:len(data)-5], wireCRC)

	packByte := data[len(data)-2]

	rec := WriteLockKillRecord{
		TotalCount: totalCount,
		PC:         pc,
		EPC:        epc,
		CRCValid:   crcValid,
		ErrorCode:  data[len(data)-3],
		Antenna:    int(packByte&0x03) + 1,
		Frequency:  int(packByte&0xFC) >> 2,
		RetryCount: data[len(data)-1],
	}
	return rec, nil
}
