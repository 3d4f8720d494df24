package zk

import (
	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/mta/pkg/math/sample"
	"github.com/taurusgroup/mta/pkg/paillier"
	"github.com/taurusgroup/mta/pkg/pedersen"
)

// Fixed keys used by the tests of the proofs and of the MtA exchange, so that
// no safe prime has to be generated at test time.
var (
	ProverPaillierPublic, VerifierPaillierPublic, ThirdPaillierPublic *paillier.PublicKey
	ProverPaillierSecret, VerifierPaillierSecret, ThirdPaillierSecret *paillier.SecretKey
	Pedersen, ThirdPedersen                                           *pedersen.Parameters
)

func mustHex(s string) *saferith.Nat {
	n, err := new(saferith.Nat).SetHex(s)
	if err != nil {
		panic(err)
	}
	return n
}

func init() {
	p1 := mustHex("D5DC3D062A037674EB7DCAF4EEFB54325BACDA23342C042EE01C55C7F91110A7EE103C4EB19248BE8D274B087E7A05521D6452433BEB21524BEEFA82946DC314E494D4FB61C0080FD80970582AF9E751E5D468545F1C4ADDF7E1684FA73717A21D2DAD6E4B7C2914DB6B27AE093FBC6619961C4EC7962F5999F2DCB540F070CB")
	q1 := mustHex("C0B9AD3B0095802DFC8702A1235007DF38820B22F2C666DEAE9690763701BD78F684CFE10C294E0F540F1B744463E1CF25E052E5DC7C74E467D8873E7912D1F296555BCF3864FFF0E25A4DE418A366D668276A8C5ECBC33648D9287C5F069732DF474F6A11748D2DEF7380C03ABF1BAE18616070D7D7D529842F345AF84F7307")
	p2 := mustHex("D68DE41DABFC5D37A8A41CB7B789544D51C1089F83B0883B5FF30C0814E93B2A6A9FEF23BE398E2990079929C68F0D3DFDCF1DC1EB24A7CE9E16CBC8A7CED07428BBBF95F9816C8EC6B7D724C2903EA444BCC01143BD772F7BBA58C9FAC4C60ACBFA9AD2F1B33C412A5685CA5DF5C1D29339A1F60AC0E0D9189FDCF4AFD030A7")
	q2 := mustHex("CCD716664C7D9D712C6EA2C6837D7A5C5BA269405DBDB96C5BE8E29A0AD091B9C61AD7A4F5526EAE3DC9B062C6A3838F0159B3FC347F2D9AE6EB3EFEC8EEF04531F79FD199B7FEC08980291F0D0FF1CD9BC2D3559C42F2E55F556534943D941AD7E734C2D1FB0A172C86A4146EE9065966BB706436B60E42BC4F3BA7058190F7")
	p3 := mustHex("E90B38F2EC36BC840A1E25A0F0BA0FD28537CCF67BEB7E5504714E35D052DBA92AEEC1BCEE975B941FC0BF478727FCA0B6F6347FB6C9E1C5025D91CF4EDDB14458FB420DB802AC7A6FB428ACEB0277EBC57CAF7D52198068F9B77C5F66289A413D18ADB0804D49FC1AFE7776057FF8F3EA07E53A0EA278C69D0333E991628E8B")
	q3 := mustHex("CCAB53402E36801684880F616CEE491194693AEDC3F6AD9D55AF32D3052C12B7B1F4063ABB63942E0FEA0DFEC5BA5B98D2497EAEBE7EC55E2DAD0E5A3AF72BF3107493CD1D53987D1B2F9C1D679293DF275FD59EF5C9ABD3FE946EB2F55DC1AB17BB0760F993654974F640A4BD0EDEF57825189EF061EB27E57290F4AC97BB23")

	ProverPaillierSecret = paillier.NewSecretKeyFromPrimes(p1, q1)
	ProverPaillierPublic = ProverPaillierSecret.PublicKey

	VerifierPaillierSecret = paillier.NewSecretKeyFromPrimes(p2, q2)
	VerifierPaillierPublic = VerifierPaillierSecret.PublicKey

	ThirdPaillierSecret = paillier.NewSecretKeyFromPrimes(p3, q3)
	ThirdPaillierPublic = ThirdPaillierSecret.PublicKey

	Pedersen, _ = VerifierPaillierSecret.GeneratePedersen(sample.NewSeededReader([]byte("verifier pedersen")))
	ThirdPedersen, _ = ThirdPaillierSecret.GeneratePedersen(sample.NewSeededReader([]byte("third pedersen")))
}
