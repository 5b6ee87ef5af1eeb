package ledger

// ColumnLetter converts a 0-indexed column position into its A1 letter
// form: 0 is A, 25 is Z, 26 is AA.
func ColumnLetter(index int) string {
	if index < 0 {
		return ""
	}
	var letters []byte
	for n := index + 1; n > 0; n /= 26 {
		n--
		letters = append([]byte{byte('A' + n%26)}, letters...)
	}
	return string(letters)
}
