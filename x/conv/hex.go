package conv

const hexd = "0123456789ABCDEF"

// U8Hex formats b as "0xNN" without fmt; safe for MCU builds.
func U8Hex(b uint8) string {
	var buf [4]byte
	buf[0] = '0'
	buf[1] = 'x'
	buf[2] = hexd[b>>4]
	buf[3] = hexd[b&0xF]
	return string(buf[:])
}

// RGBHex formats an RGB triple as "#RRGGBB".
func RGBHex(r, g, b uint8) string {
	buf := [7]byte{'#'}
	for i, v := range [3]uint8{r, g, b} {
		buf[1+2*i] = hexd[v>>4]
		buf[2+2*i] = hexd[v&0xF]
	}
	return string(buf[:])
}
