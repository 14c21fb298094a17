package auth

// commonPasswords is a short list of frequently leaked passwords.
var commonPasswords = map[string]struct{}{
	"password":      {},
	"password1":     {},
	"password123":   {},
	"passw0rd":      {},
	"12345678":      {},
	"123456789":     {},
	"1234567890":    {},
	"87654321":      {},
	"11111111":      {},
	"00000000":      {},
	"qwertyui":      {},
	"qwerty123":     {},
	"qwertyuiop":    {},
	"1q2w3e4r":      {},
	"1qaz2wsx":      {},
	"abc12345":      {},
	"abcd1234":      {},
	"iloveyou":      {},
	"sunshine":      {},
	"princess":      {},
	"football":      {},
	"baseball":      {},
	"superman":      {},
	"starwars":      {},
	"whatever":      {},
	"trustno1":      {},
	"letmein1":      {},
	"welcome1":      {},
	"welcome123":    {},
	"admin123":      {},
	"administrator": {},
	"computer":      {},
	"michelle":      {},
	"jennifer":      {},
	"dragon123":     {},
	"monkey123":     {},
	"master123":     {},
	"shadow123":     {},
	"zaq12wsx":      {},
	"changeme":      {},
	"library1":      {},
	"asdfghjk":      {},
	"asdfasdf":      {},
	"football1":     {},
	"charlie1":      {},
	"aa123456":      {},
	"access14":      {},
	"freedom1":      {},
	"liverpool":     {},
	"chocolate":     {},
}
