package h264

import (
	"github.com/pion/rtcp"
	"github.com/pion/webrtc/v4"
)

// FeedbackReceived handles RTCP feedback for the encoder's stream. Picture
// loss indications and full intra requests ask for a key frame, subject to
// PLIInterval. It reports whether a key frame was scheduled.
func (e *Encoder) FeedbackReceived(pkts []rtcp.Packet) bool {
	for _, pkt := range pkts {
		switch pkt.(type) {
		case *rtcp.PictureLossIndication, *rtcp.FullIntraRequest:
			return e.RequestKeyFrame()
		}
	}
	return false
}

// ReadFeedback reads RTCP from sender and forwards it to e until the
// sender is closed. Run it in its own goroutine per sender.
func ReadFeedback(sender *webrtc.RTPSender, e *Encoder) error {
	for {
		pkts, _, err := sender.ReadRTCP()
		if err != nil {
			return err
		}
		e.FeedbackReceived(pkts)
	}
}
