package sevenzipfmt

import (
	"bytes"
	"encoding/binary"
	"io"
	"time"

	"github.com/go-arcsdk/arcsdk/codec"
	"github.com/go-arcsdk/arcsdk/cryptutil"
	arcerrors "github.com/go-arcsdk/arcsdk/errors"
)

// Entry is one file or directory destined for a 7z folder. Content is nil
// for directories and empty files. The writer does not support solid
// blocks (spec.md's set_solid is advisory everywhere — see DESIGN.md):
// every non-empty entry gets its own folder with one packed stream and
// one compression coder; when a password is set, an AES coder is chained
// in front of it, joined to it by a single bind pair.
type Entry struct {
	Name       string
	Content    []byte // nil for directories and empty files
	IsDir      bool
	ModTime    time.Time
	Attributes uint32
}

// CoderID mirrors the 7z coder id bytes (distinct from codec.ID, which
// is this engine's own internal registry key).
var (
	coderIDCopy  = []byte{0x00}
	coderIDLZMA  = []byte{0x03, 0x01, 0x01}
	coderIDLZMA2 = []byte{0x21}
	coderIDAES   = []byte{0x06, 0xf1, 0x07, 0x01}
)

// defaultLZMAProperties is the 5-byte LZMA1 wire properties (propsByte +
// little-endian dictionary size) used whenever codec.IDLZMA is selected:
// lc=3, lp=0, pb=2 (propsByte = (pb*5+lp)*9+lc = 0x5D), 16 MiB dictionary.
func defaultLZMAProperties() []byte {
	return []byte{0x5D, 0x00, 0x00, 0x00, 0x01}
}

// WriteOptions configures folder-level coding for the archive writer.
type WriteOptions struct {
	// Method selects the per-folder coder: codec.IDLZMA2, codec.IDLZMA or
	// codec.IDCopy (zero selects LZMA2); any other id is rejected.
	Method codec.ID
	// Password, if non-empty, wraps every folder's coder chain with the
	// 7z-AES256-SHA256 coder (content encryption, spec.md §4.8's
	// set_content_encryption).
	Password       string
	NumCyclesPower byte
}

// folderPlan is what Write needs to know about one entry's folder after
// compressing (and optionally encrypting) its content. coderIDs and
// coderProps are in decode order (the order the real 7z reader applies
// them: packed bytes through coderIDs[0] first, its output through
// coderIDs[1], and so on), and unpackSizes holds the corresponding
// per-coder output size, one per entry in coderIDs — this is exactly
// what kCodersUnpackSize and the folder's bind pairs need, since a
// chain of N coders always has N-1 bind pairs wiring coder i's output
// to coder i+1's input, with only coder 0's input (the folder's one
// packed stream) and coder N-1's output (the folder's one unpacked
// stream) left unbound.
type folderPlan struct {
	entry       *Entry
	packedSize  int64
	unpackSizes []int64
	crc         uint32
	coderIDs    [][]byte
	coderProps  [][]byte
}

// Write serializes entries as a 7z archive to w, which must support Seek
// (the signature header's next-header pointer can only be patched after
// the packed streams and next header are both written).
func Write(w io.WriteSeeker, entries []Entry, opts WriteOptions) error {
	if _, err := w.Write(make([]byte, signatureHeaderSize)); err != nil {
		return arcerrors.Wrap(arcerrors.CodeIO, "sevenzipfmt: reserving signature header", err)
	}

	plans := make([]folderPlan, 0, len(entries))
	packStart := int64(signatureHeaderSize)
	packPos := int64(0)

	for i := range entries {
		e := &entries[i]
		if e.IsDir || len(e.Content) == 0 {
			plans = append(plans, folderPlan{entry: e})
			continue
		}

		plan, err := planFolder(e, opts)
		if err != nil {
			return err
		}
		if _, err := w.Write(plan.packed); err != nil {
			return arcerrors.Wrap(arcerrors.CodeIO, "sevenzipfmt: writing packed stream", err)
		}
		packPos += plan.packedSize
		plans = append(plans, plan.folderPlan)
	}

	header := buildNextHeader(plans, packStart, entries)

	headerOffset := packStart + packPos
	if _, err := w.Seek(headerOffset, io.SeekStart); err != nil {
		return arcerrors.Wrap(arcerrors.CodeIO, "sevenzipfmt: seeking to next header", err)
	}
	if _, err := w.Write(header); err != nil {
		return arcerrors.Wrap(arcerrors.CodeIO, "sevenzipfmt: writing next header", err)
	}

	sig := buildSignatureHeader(uint64(packPos), header)
	if _, err := w.Seek(0, io.SeekStart); err != nil {
		return arcerrors.Wrap(arcerrors.CodeIO, "sevenzipfmt: seeking to signature header", err)
	}
	if _, err := w.Write(sig); err != nil {
		return arcerrors.Wrap(arcerrors.CodeIO, "sevenzipfmt: writing signature header", err)
	}
	if _, err := w.Seek(0, io.SeekEnd); err != nil {
		return arcerrors.Wrap(arcerrors.CodeIO, "sevenzipfmt: seeking to end", err)
	}
	return nil
}

type plannedFolder struct {
	folderPlan
	packed []byte
}

// compressWithMethod runs e.Content through method, returning the
// compressed bytes and the coder's 7z wire coderID/properties. Copy and
// LZMA2 keep their existing dedicated paths (LZMA2 via
// codec.EncodeLZMA2Buffer, already exercised by the round-trip tests);
// every other registered codec id — crucially codec.IDLZMA, which has a
// real encoder in codec/lzma.go, and codec.IDPPMd, which does not —
// dispatches through the registry itself via codec.Lookup, so selecting
// an unavailable codec fails with codec's own typed
// ErrCodecUnavailable instead of silently compressing with LZMA2.
func compressWithMethod(method codec.ID, content []byte) (compressed []byte, coderID []byte, coderProps []byte, err error) {
	switch method {
	case codec.IDCopy:
		return content, coderIDCopy, nil, nil
	case codec.IDLZMA2:
		c, propsByte, err := codec.EncodeLZMA2Buffer(content)
		if err != nil {
			return nil, nil, nil, err
		}
		return c, coderIDLZMA2, []byte{propsByte}, nil
	case codec.IDLZMA:
		props := defaultLZMAProperties()
		c, err := codec.CompressBufferWithProps(codec.IDLZMA, props, content)
		if err != nil {
			return nil, nil, nil, err
		}
		return c, coderIDLZMA, props, nil
	default:
		// Any other registered id either has no real 7z coder id (the
		// extra general-purpose codecs in codec/extra.go, selectable
		// only via codec.CompressBuffer/DecompressBuffer, never as a
		// folder method — see DESIGN.md) or is registered-but-
		// unavailable (PPMd, BCJ, BCJ2). Dispatching through
		// codec.CompressBuffer surfaces the latter's typed
		// ErrCodecUnavailable; anything that actually compresses here
		// still can't be written into a folder the real 7z reader
		// would recognize, so it is rejected explicitly instead of
		// writing bytes under a made-up coder id.
		if _, err := codec.CompressBuffer(method, content); err != nil {
			return nil, nil, nil, err
		}
		return nil, nil, nil, arcerrors.New(arcerrors.CodeInvalidArguments, "sevenzipfmt: "+method.String()+" has no 7z coder id")
	}
}

func planFolder(e *Entry, opts WriteOptions) (plannedFolder, error) {
	crc := codec.CRC32(e.Content)

	method := opts.Method
	if method == 0 {
		method = codec.IDLZMA2
	}

	compressed, coderID, coderProps, err := compressWithMethod(method, e.Content)
	if err != nil {
		return plannedFolder{}, err
	}

	coderIDs := [][]byte{coderID}
	coderPropsList := [][]byte{coderProps}
	unpackSizes := []int64{int64(len(e.Content))}
	packed := compressed

	if opts.Password != "" {
		salt, err := cryptutil.NewSalt()
		if err != nil {
			return plannedFolder{}, err
		}
		iv, err := cryptutil.NewIV()
		if err != nil {
			return plannedFolder{}, err
		}
		key := cryptutil.DeriveKey(opts.Password, salt, opts.NumCyclesPower)
		ciphertext, err := cryptutil.Encrypt(key, iv, compressed)
		if err != nil {
			return plannedFolder{}, err
		}

		// AES decrypts first (decode order): its output is the
		// compression coder's packed input, so it goes in front of the
		// chain with the compression coder's own packed size as its
		// unpack size.
		coderIDs = append([][]byte{coderIDAES}, coderIDs...)
		coderPropsList = append([][]byte{codec.EncodeAESProperties(salt, iv, opts.NumCyclesPower)}, coderPropsList...)
		unpackSizes = append([]int64{int64(len(compressed))}, unpackSizes...)
		packed = ciphertext
	}

	return plannedFolder{
		folderPlan: folderPlan{
			entry:       e,
			packedSize:  int64(len(packed)),
			unpackSizes: unpackSizes,
			crc:         crc,
			coderIDs:    coderIDs,
			coderProps:  coderPropsList,
		},
		packed: packed,
	}, nil
}

func buildSignatureHeader(nextHeaderSize uint64, header []byte) []byte {
	var start bytes.Buffer
	binary.Write(&start, binary.LittleEndian, uint64(nextHeaderSize))
	binary.Write(&start, binary.LittleEndian, uint64(len(header)))
	binary.Write(&start, binary.LittleEndian, codec.CRC32(header))

	var out bytes.Buffer
	out.Write(signature[:])
	out.WriteByte(0) // major version
	out.WriteByte(4) // minor version
	startCRC := codec.CRC32(start.Bytes())
	binary.Write(&out, binary.LittleEndian, startCRC)
	out.Write(start.Bytes())
	return out.Bytes()
}

func buildNextHeader(plans []folderPlan, packStart int64, entries []Entry) []byte {
	var body bytes.Buffer
	body.WriteByte(idHeader)

	packSizes := []uint64{}
	for _, p := range plans {
		if p.entry.IsDir || len(p.entry.Content) == 0 {
			continue
		}
		packSizes = append(packSizes, uint64(p.packedSize))
	}
	if len(packSizes) > 0 {
		body.WriteByte(idMainStreamsInfo)
		writePackInfo(&body, packSizes)
		writeUnpackInfo(&body, plans)
		writeSubStreamsInfo(&body, plans)
		body.WriteByte(idEnd) // end kMainStreamsInfo
	}

	writeFilesInfo(&body, entries)
	body.WriteByte(idEnd) // end kHeader

	return body.Bytes()
}

func writePackInfo(w *bytes.Buffer, sizes []uint64) {
	w.WriteByte(idPackInfo)
	w.Write(putNumber(0)) // pack position
	w.Write(putNumber(uint64(len(sizes))))
	w.WriteByte(idSize)
	for _, s := range sizes {
		w.Write(putNumber(s))
	}
	w.WriteByte(idEnd)
}

func writeUnpackInfo(w *bytes.Buffer, plans []folderPlan) {
	w.WriteByte(idUnpackInfo)
	w.WriteByte(idFolder)

	numFolders := 0
	for _, p := range plans {
		if p.entry.IsDir || len(p.entry.Content) == 0 {
			continue
		}
		numFolders++
	}
	w.Write(putNumber(uint64(numFolders)))
	w.WriteByte(0) // external = 0 (folders inline)

	for _, p := range plans {
		if p.entry.IsDir || len(p.entry.Content) == 0 {
			continue
		}
		numCoders := len(p.coderIDs)
		w.Write(putNumber(uint64(numCoders)))
		for i, id := range p.coderIDs {
			props := p.coderProps[i]
			flags := byte(len(id)) & 0x0f
			if len(props) > 0 {
				flags |= 0x20
			}
			w.WriteByte(flags)
			w.Write(id)
			if len(props) > 0 {
				w.Write(putNumber(uint64(len(props))))
				w.Write(props)
			}
		}

		// Every coder here is a simple one-in/one-out coder chained
		// start to end (coder i's output feeds coder i+1's input), so
		// there are numCoders-1 bind pairs and 1 packed stream. Neither
		// count is written (the reader derives both from the coders'
		// stream counts); only each bind pair's InIndex/OutIndex follows
		// the coder list, and a single packed stream's index is left
		// implicit (coder 0's input) rather than listed.
		numBindPairs := numCoders - 1
		for i := 0; i < numBindPairs; i++ {
			w.Write(putNumber(uint64(i + 1))) // InIndex: coder i+1's input
			w.Write(putNumber(uint64(i)))     // OutIndex: coder i's output
		}
		if numPackedStreams := numCoders - numBindPairs; numPackedStreams > 1 {
			for i := 0; i < numPackedStreams; i++ {
				w.Write(putNumber(uint64(i)))
			}
		}
	}

	w.WriteByte(idCodersUnpackSize)
	for _, p := range plans {
		if p.entry.IsDir || len(p.entry.Content) == 0 {
			continue
		}
		for _, size := range p.unpackSizes {
			w.Write(putNumber(uint64(size)))
		}
	}
	w.WriteByte(idEnd) // end kUnpackInfo
}

func writeSubStreamsInfo(w *bytes.Buffer, plans []folderPlan) {
	w.WriteByte(idSubStreamsInfo)
	w.WriteByte(idCRC)
	w.WriteByte(1) // all defined
	for _, p := range plans {
		if p.entry.IsDir || len(p.entry.Content) == 0 {
			continue
		}
		var crcBuf [4]byte
		binary.LittleEndian.PutUint32(crcBuf[:], p.crc)
		w.Write(crcBuf[:])
	}
	w.WriteByte(idEnd)
	w.WriteByte(idEnd) // end kSubStreamsInfo
}

func writeFilesInfo(w *bytes.Buffer, entries []Entry) {
	w.WriteByte(idFilesInfo)
	w.Write(putNumber(uint64(len(entries))))

	emptyStreams := make([]bool, len(entries))
	anyEmpty := false
	for i, e := range entries {
		if e.IsDir || len(e.Content) == 0 {
			emptyStreams[i] = true
			anyEmpty = true
		}
	}

	if anyEmpty {
		w.WriteByte(idEmptyStream)
		bits := packBits(emptyStreams)
		w.Write(putNumber(uint64(len(bits))))
		w.Write(bits)

		emptyFile := make([]bool, 0, len(entries))
		for i, e := range entries {
			if emptyStreams[i] && !e.IsDir {
				emptyFile = append(emptyFile, true)
			} else if emptyStreams[i] {
				emptyFile = append(emptyFile, false)
			}
		}
		if len(emptyFile) > 0 {
			w.WriteByte(idEmptyFile)
			bits := packBits(emptyFile)
			w.Write(putNumber(uint64(len(bits))))
			w.Write(bits)
		}
	}

	var names bytes.Buffer
	names.WriteByte(0) // external = 0
	for _, e := range entries {
		for _, r := range e.Name {
			var b [2]byte
			binary.LittleEndian.PutUint16(b[:], uint16(r))
			names.Write(b[:])
		}
		names.Write([]byte{0, 0})
	}
	w.WriteByte(idName)
	w.Write(putNumber(uint64(names.Len())))
	w.Write(names.Bytes())

	w.WriteByte(idWinAttributes)
	attrBits := make([]bool, len(entries))
	for i := range entries {
		attrBits[i] = true
	}
	w.Write(putNumber(uint64(1 + 1 + len(entries)*4)))
	w.WriteByte(1) // all defined
	w.WriteByte(0) // external = 0
	for _, e := range entries {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], e.Attributes)
		w.Write(b[:])
	}

	w.WriteByte(idEnd) // end kFilesInfo
}

func packBits(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			out[i/8] |= 1 << (7 - uint(i%8))
		}
	}
	return out
}
