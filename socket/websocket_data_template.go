package socket

type op_type int

type ws_message struct {
	Op   op_type
	Data interface{}
}

func construct_ws_message(op op_type, data interface{}) ws_message {
	return ws_message{
		Op:   op,
		Data: data,
	}
}

//////////////////////////////////////// WEBSCOKET SERVER OP DATA ////////////////////////////////////////

const (
	OP_PRESENCE op_type = 1001
	OP_FRIENDS  op_type = 1002
	OP_THREAD   op_type = 1003
	OP_ERROR    op_type = 3000
)

// 3000
type error_data struct {
	Type    string
	Problem string
}
