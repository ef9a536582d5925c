// Package keyfile reads and rewrites single keys in flat KEY=VALUE
// configuration files such as /etc/rc.conf. Every line that does not carry
// the requested key is preserved byte for byte.
package keyfile
