package character

// Look is the visible appearance of a character: body, face, hair and the
// item ids shown per equip slot.
type Look struct {
	Female     bool
	Skin       uint8
	Face       int32
	Hair       int32
	Equips     map[uint8]int32
	Masked     map[uint8]int32 // covered by a cash item
	CashWeapon int32
}
