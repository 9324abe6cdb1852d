// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	sliceaKmYvgPZWqXΔodyPgCUS0AΞΞ = ord.NewSliceSer[string](ord.String)
	sliceaVjWF4rzzDVNzoLc0TQodAΞΞ = ord.NewSliceSer[ConflictEntry](ConflictEntryMUS)
	slicebKplsyhqXAmSn4dNMBe7qgΞΞ = ord.NewSliceSer[Label](LabelMUS)
	sliceqMSPp4QOtH5ΔNB1FcB9I9QΞΞ = ord.NewSliceSer[FinalizedRecord](FinalizedRecordMUS)
	sliceΣMLaDDpFySJ4eZiExaHqAAΞΞ = ord.NewSliceSer[Provenance](ProvenanceMUS)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var PriorityMUS = priorityMUS{}

type priorityMUS struct{}

func (s priorityMUS) Marshal(v Priority, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s priorityMUS) Unmarshal(bs []byte) (v Priority, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = Priority(tmp)
	return
}

func (s priorityMUS) Size(v Priority) (size int) {
	return varint.Int.Size(int(v))
}

func (s priorityMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var LabelMUS = labelMUS{}

type labelMUS struct{}

func (s labelMUS) Marshal(v Label, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s labelMUS) Unmarshal(bs []byte) (v Label, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = Label(tmp)
	return
}

func (s labelMUS) Size(v Label) (size int) {
	return varint.Int.Size(int(v))
}

func (s labelMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var ProvenanceMUS = provenanceMUS{}

type provenanceMUS struct{}

func (s provenanceMUS) Marshal(v Provenance, bs []byte) (n int) {
	n = ord.String.Marshal(v.Source, bs)
	n += varint.Int.Marshal(v.SourceOrdinal, bs[n:])
	n += varint.Int.Marshal(v.ChunkIndex, bs[n:])
	return n + varint.Int.Marshal(v.Attempt, bs[n:])
}

func (s provenanceMUS) Unmarshal(bs []byte) (v Provenance, n int, err error) {
	v.Source, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.SourceOrdinal, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ChunkIndex, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Attempt, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	return
}

func (s provenanceMUS) Size(v Provenance) (size int) {
	size = ord.String.Size(v.Source)
	size += varint.Int.Size(v.SourceOrdinal)
	size += varint.Int.Size(v.ChunkIndex)
	return size + varint.Int.Size(v.Attempt)
}

func (s provenanceMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	return
}

var ConflictEntryMUS = conflictEntryMUS{}

type conflictEntryMUS struct{}

func (s conflictEntryMUS) Marshal(v ConflictEntry, bs []byte) (n int) {
	n = ord.String.Marshal(v.Field, bs)
	n += sliceaKmYvgPZWqXΔodyPgCUS0AΞΞ.Marshal(v.Values, bs[n:])
	n += ord.String.Marshal(v.Winner, bs[n:])
	return n + ord.String.Marshal(v.Reason, bs[n:])
}

func (s conflictEntryMUS) Unmarshal(bs []byte) (v ConflictEntry, n int, err error) {
	v.Field, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Values, n1, err = sliceaKmYvgPZWqXΔodyPgCUS0AΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Winner, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Reason, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s conflictEntryMUS) Size(v ConflictEntry) (size int) {
	size = ord.String.Size(v.Field)
	size += sliceaKmYvgPZWqXΔodyPgCUS0AΞΞ.Size(v.Values)
	size += ord.String.Size(v.Winner)
	return size + ord.String.Size(v.Reason)
}

func (s conflictEntryMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = sliceaKmYvgPZWqXΔodyPgCUS0AΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

var FinalizedRecordMUS = finalizedRecordMUS{}

type finalizedRecordMUS struct{}

func (s finalizedRecordMUS) Marshal(v FinalizedRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.Title, bs)
	n += ord.String.Marshal(v.Description, bs[n:])
	n += ord.String.Marshal(v.Owner, bs[n:])
	n += PriorityMUS.Marshal(v.Priority, bs[n:])
	n += slicebKplsyhqXAmSn4dNMBe7qgΞΞ.Marshal(v.Labels, bs[n:])
	n += sliceΣMLaDDpFySJ4eZiExaHqAAΞΞ.Marshal(v.MergedProvenance, bs[n:])
	return n + sliceaVjWF4rzzDVNzoLc0TQodAΞΞ.Marshal(v.Conflicts, bs[n:])
}

func (s finalizedRecordMUS) Unmarshal(bs []byte) (v FinalizedRecord, n int, err error) {
	v.Title, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Description, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Owner, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Priority, n1, err = PriorityMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Labels, n1, err = slicebKplsyhqXAmSn4dNMBe7qgΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.MergedProvenance, n1, err = sliceΣMLaDDpFySJ4eZiExaHqAAΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Conflicts, n1, err = sliceaVjWF4rzzDVNzoLc0TQodAΞΞ.Unmarshal(bs[n:])
	n += n1
	return
}

func (s finalizedRecordMUS) Size(v FinalizedRecord) (size int) {
	size = ord.String.Size(v.Title)
	size += ord.String.Size(v.Description)
	size += ord.String.Size(v.Owner)
	size += PriorityMUS.Size(v.Priority)
	size += slicebKplsyhqXAmSn4dNMBe7qgΞΞ.Size(v.Labels)
	size += sliceΣMLaDDpFySJ4eZiExaHqAAΞΞ.Size(v.MergedProvenance)
	return size + sliceaVjWF4rzzDVNzoLc0TQodAΞΞ.Size(v.Conflicts)
}

func (s finalizedRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = PriorityMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicebKplsyhqXAmSn4dNMBe7qgΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceΣMLaDDpFySJ4eZiExaHqAAΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceaVjWF4rzzDVNzoLc0TQodAΞΞ.Skip(bs[n:])
	n += n1
	return
}

var TicketBatchMUS = ticketBatchMUS{}

type ticketBatchMUS struct{}

func (s ticketBatchMUS) Marshal(v TicketBatch, bs []byte) (n int) {
	n = IDMUS.Marshal(v.RunID, bs)
	n += raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
	return n + sliceqMSPp4QOtH5ΔNB1FcB9I9QΞΞ.Marshal(v.Records, bs[n:])
}

func (s ticketBatchMUS) Unmarshal(bs []byte) (v TicketBatch, n int, err error) {
	v.RunID, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Records, n1, err = sliceqMSPp4QOtH5ΔNB1FcB9I9QΞΞ.Unmarshal(bs[n:])
	n += n1
	return
}

func (s ticketBatchMUS) Size(v TicketBatch) (size int) {
	size = IDMUS.Size(v.RunID)
	size += raw.TimeUnixMicro.Size(v.CreatedAt)
	return size + sliceqMSPp4QOtH5ΔNB1FcB9I9QΞΞ.Size(v.Records)
}

func (s ticketBatchMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceqMSPp4QOtH5ΔNB1FcB9I9QΞΞ.Skip(bs[n:])
	n += n1
	return
}
