package packet

// Client opcodes.
const (
	C_OPCODE_LOGIN    byte = 0x01 // [name s][password s]
	C_OPCODE_MOVE     byte = 0x02 // [x f][y f][z f]
	C_OPCODE_VIEWDIST byte = 0x03 // [chunks h]
	C_OPCODE_PING     byte = 0x04 // [nonce d]
	C_OPCODE_QUIT     byte = 0x05
)

// Server opcodes.
const (
	S_OPCODE_HELLO       byte = 0x80 // [proto h][server name s]
	S_OPCODE_LOGINRESULT byte = 0x81 // [ok c][entity id d][x f][y f][z f]
	S_OPCODE_SPAWN       byte = 0x82 // [id d][category c][x f][y f][z f]
	S_OPCODE_DESPAWN     byte = 0x83 // [id d]
	S_OPCODE_UPDATE      byte = 0x84 // [id d][x f][y f][z f]
	S_OPCODE_PONG        byte = 0x85 // [nonce d]
)

// ProtocolVersion is bumped on any wire-incompatible change.
const ProtocolVersion uint16 = 1
