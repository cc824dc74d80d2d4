package state

import "encoding/binary"

var (
	accountPrefix              = []byte("account/")
	tokenBalancePrefix         = []byte("balance/")
	selfStakePrefix            = []byte("economy/self-stake/")
	totalStakeKey              = []byte("economy/total-stake")
	estateBondPrefix           = []byte("economy/estate-bond/")
	totalEstateStakeKey        = []byte("economy/total-estate-stake")
	innovationStakePrefix      = []byte("economy/innovation-stake/")
	totalInnovationStakeKey    = []byte("economy/total-innovation-stake")
	exitQueuePrefix            = []byte("economy/exit-queue/")
	estateExitQueuePrefix      = []byte("economy/estate-exit-queue/")
	innovationExitQueuePrefix  = []byte("economy/innovation-exit-queue/")
	shareRecordPrefix          = []byte("economy/shares/")
	rewardPoolKey              = []byte("economy/reward-pool")
	pendingRewardsPrefix       = []byte("economy/pending-rewards/")
	eraStateKey                = []byte("economy/era")
	estateRecordPrefix         = []byte("estate/record/")
)

func appendUint64(key []byte, v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return append(key, buf[:]...)
}

func addrKey(prefix []byte, addr [20]byte) []byte {
	key := make([]byte, 0, len(prefix)+20)
	key = append(key, prefix...)
	return append(key, addr[:]...)
}

func accountKey(addr [20]byte) []byte { return addrKey(accountPrefix, addr) }

func tokenBalanceKey(symbol string, addr [20]byte) []byte {
	key := make([]byte, 0, len(tokenBalancePrefix)+len(symbol)+1+20)
	key = append(key, tokenBalancePrefix...)
	key = append(key, symbol...)
	key = append(key, ':')
	return append(key, addr[:]...)
}

func selfStakeKey(addr [20]byte) []byte { return addrKey(selfStakePrefix, addr) }

func estateBondKey(estateID uint64) []byte {
	return appendUint64(append([]byte(nil), estateBondPrefix...), estateID)
}

func innovationStakeKey(addr [20]byte) []byte { return addrKey(innovationStakePrefix, addr) }

func exitQueueKey(addr [20]byte, round uint64) []byte {
	return appendUint64(addrKey(exitQueuePrefix, addr), round)
}

func estateExitQueueKey(addr [20]byte, round uint64, estateID uint64) []byte {
	return appendUint64(appendUint64(addrKey(estateExitQueuePrefix, addr), round), estateID)
}

func innovationExitQueueKey(addr [20]byte, round uint64) []byte {
	return appendUint64(addrKey(innovationExitQueuePrefix, addr), round)
}

func shareRecordKey(addr [20]byte) []byte { return addrKey(shareRecordPrefix, addr) }

func pendingRewardsKey(addr [20]byte) []byte { return addrKey(pendingRewardsPrefix, addr) }

func estateRecordKey(estateID uint64) []byte {
	return appendUint64(append([]byte{}, estateRecordPrefix...), estateID)
}
