package afpacket

import "fmt"

const (
	tpacketAlignment = 16
	tpacketHdrLen    = 52
	maxBlockSize     = 4 << 20
)

// ringSize lays out a TPACKET_V3 ring of about bufferMB megabytes holding
// frames of up to snapLen bytes. Frames are aligned to TPACKET_ALIGNMENT,
// blocks are whole pages holding whole frames.
func ringSize(bufferMB, snapLen, pageSize int) (frameSize, blockSize, numBlocks int, err error) {
	if bufferMB <= 0 {
		return 0, 0, 0, fmt.Errorf("ring buffer must be positive, got %d MB", bufferMB)
	}
	if snapLen <= 0 {
		return 0, 0, 0, fmt.Errorf("snap length must be positive, got %d", snapLen)
	}
	if pageSize <= 0 || pageSize%tpacketAlignment != 0 {
		return 0, 0, 0, fmt.Errorf("page size must be a positive multiple of %d, got %d", tpacketAlignment, pageSize)
	}

	frameSize = alignUp(tpacketHdrLen+snapLen, tpacketAlignment)

	blockSize = lcm(pageSize, frameSize)
	if blockSize > maxBlockSize {
		blockSize = maxBlockSize / pageSize * pageSize
	}
	if blockSize%frameSize != 0 {
		perBlock := max(blockSize/frameSize, 1)
		blockSize = alignUp(perBlock*frameSize, pageSize)
	}

	numBlocks = max(bufferMB<<20/blockSize, 1)
	return frameSize, blockSize, numBlocks, nil
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return a / gcd(a, b) * b
}
