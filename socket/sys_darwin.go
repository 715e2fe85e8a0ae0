package socket

// fionread is _IOR('f', 127, int); x/sys/unix does not export it.
const fionread = 0x4004667f
