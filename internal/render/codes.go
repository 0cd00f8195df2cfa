package render

import "fmt"

// codeTable resolves a numeric protocol code to its name.
type codeTable map[uint64]string

func (t codeTable) name(v uint64) (string, bool) {
	s, ok := t[v]
	return s, ok
}

var sidecarCodes = codeTable{
	0: "FwdFromUserspace",
	1: "FwdToUserspace",
	2: "IcmpNeeded",
	3: "ArpNeeded",
	4: "NeighborNeeded",
	5: "Invalid",
}

var arpOpcodes = codeTable{1: "Request", 2: "Reply"}

var arpHwTypes = codeTable{1: "Ethernet"}

var ddmRouterKinds = codeTable{0: "Server", 1: "Transit"}

var bfdDiagnostics = codeTable{
	0: "NoDiagnostic",
	1: "ControlDetectionTimeExpired",
	2: "EchoFunctionFailed",
	3: "NeighborSignaledSessionDown",
	4: "ForwardingPlaneReset",
	5: "PathDown",
	6: "ConcatenatedPathDown",
	7: "AdministrativelyDown",
	8: "ReverseConcatenatedPathDown",
}

var bfdStatuses = codeTable{
	0: "AdministrativelyDown",
	1: "Down",
	2: "Init",
	3: "Up",
}

// ICMP types. 41 is left out and renders as a number.
var icmpTypes = func() codeTable {
	t := codeTable{
		0:   "EchoReply",
		1:   "Unassigned1",
		2:   "Unassigned2",
		3:   "DestinationUnreachable",
		4:   "SourceQuench",
		5:   "Redirect",
		6:   "AlternateHostAddress",
		7:   "Unassigned7",
		8:   "Echo",
		9:   "RouterAdvertisement",
		10:  "RouterSolicitation",
		11:  "TimeExceeded",
		12:  "ParameterProblem",
		13:  "Timestamp",
		14:  "TimestampReply",
		15:  "InformationRequest",
		16:  "InformationReply",
		17:  "AddressMaskRequest",
		18:  "AddressMaskReply",
		30:  "Traceroute",
		31:  "DatagramConversionError",
		32:  "MobileHostRedirect",
		33:  "IPv6WhereAreYou",
		34:  "IPv6IAmHere",
		35:  "MobileRegistrationRequest",
		36:  "MobileRegistrationReply",
		37:  "DomainNameRequest",
		38:  "DomainNameReply",
		39:  "SKIP",
		40:  "Photuris",
		42:  "ExtendedEchoRequest",
		43:  "ExtendedEchoReply",
		253: "Experiment1",
		254: "Experiment2",
		255: "Reserved",
	}
	for i := uint64(19); i <= 29; i++ {
		t[i] = fmt.Sprintf("Reserved%d", i)
	}
	return t
}()

// ICMP codes, keyed by type.
var icmpCodes = map[uint64]codeTable{
	3: {
		0:  "NetUnreachable",
		1:  "HostUnreachable",
		2:  "ProtocolUnreachable",
		3:  "PortUnreachable",
		4:  "FragmentationNeededandDontFragmentWasSet",
		5:  "SourceRouteFailed",
		6:  "DestinationNetworkUnknown",
		7:  "DestinationHostUnknown",
		8:  "SourceHostIsolated",
		9:  "NetworkAdministrativelyProhibited",
		10: "HostAdministrativelyProhibited",
		11: "NetworkUnreachableTOS",
		12: "DestinationHostUnreachableTOS",
		13: "CommunicationAdministrativelyProhibited",
		14: "HostPrecedenceViolation",
		15: "PrecedenceCutoffInEffect",
	},
	5: {
		0: "RedirectDatagramForNetwork",
		1: "RedirectDatagramForHost",
		2: "RedirectDatagramForToSNetwork",
		3: "RedirectDatagramForToSHost",
	},
	11: {
		0: "TTLExpiredInTransit",
		1: "FragmentReassemblyTimeExceeded",
	},
	12: {
		0: "PointerIndicatesError",
		1: "MissingRequiredOption",
		2: "BadLength",
	},
	43: {
		0: "NoError",
		1: "MalformedQuery",
		2: "NoSuchInterface",
		3: "NoSuchTableEntry",
		4: "MultipleInterfacesSatisfyQuery",
	},
}

var icmp6Types = codeTable{
	0:   "Reserved",
	1:   "DestinationUnreachable",
	2:   "PacketTooBig",
	3:   "TimeExceeded",
	4:   "ParameterProblem",
	100: "PrivateExperimentation100",
	101: "PrivateExperimentation101",
	127: "ReservedForExpansion",
	128: "EchoRequest",
	129: "EchoReply",
	130: "MulticastListenerQuery",
	131: "MulticastListenerReport",
	132: "MulticastListenerDone",
	133: "RouterSolicitation",
	134: "RouterAdvertisement",
	135: "NeighborSolicitation",
	136: "NeighborAdvertisement",
	137: "RedirectMessage",
	138: "RouterRenumbering",
	139: "ICMPNodeInformationQuery",
	140: "ICMPNodeInformationResponse",
	141: "InverseNeighborDiscoverySolicitationMessage",
	142: "InverseNeighborDiscoveryAdvertisementMessage",
	143: "Version2MulticastListenerReport",
	144: "HomeAgentAddressDiscoveryRequestMessage",
	145: "HomeAgentAddressDiscoveryReplyMessage",
	146: "MobilePrefixSolicitation",
	147: "MobilePrefixAdvertisement",
	148: "CertificationPathSolicitationMessage",
	149: "CertificationPathAdvertisementMessage",
	150: "ExperimentalMobilityProtocols",
	151: "MulticastRouterAdvertisement",
	152: "MulticastRouterSolicitation",
	153: "MulticastRouterTermination",
	154: "FMIPv6Messages",
	155: "RPLControlMessage",
	156: "ILNPv6LocatorUpdateMessage",
	157: "DuplicateAddressRequest",
	158: "DuplicateAddressConfirmation",
	159: "MPLControlMessage",
	160: "ExtendedEchoRequest",
	161: "ExtendedEchoReply",
	200: "PrivateExperimentation1",
	201: "PrivateExperimentation2",
	255: "ReservedForInformationalExpansion",
}

var icmp6Codes = map[uint64]codeTable{
	1: {
		0: "NoRouteToDestination",
		1: "CommunicationWithDestinationAdministrativelyProhibited",
		2: "BeyondScopeOfSourceAddress",
		3: "AddressUnreachable",
		4: "PortUnreachable",
		5: "SourceAddressFailedIngressEgressPolicy",
		6: "RejectRouteToDestination",
		7: "ErrorInSourceRoutingHeader",
	},
	3: {
		0: "HopLimitExceededInTransit",
		1: "FragmentReassemblyTimeExceeded",
	},
	4: {
		0: "ErroneousHeaderFieldEncountered",
		1: "UnrecognizedNextHeaderTypeEncountered",
		2: "UnrecognizedIpv6OptionEncountered",
	},
	138: {
		0:   "RouterRenumberingCommand",
		1:   "RouterRenumberingResult",
		255: "SequenceNumberReset",
	},
	139: {
		0: "DataFieldV6Address",
		1: "DataFieldNodeName",
		2: "DataFieldV4Address",
	},
	140: {
		0: "SuccessfulReply",
		1: "ResponderRefuses",
		2: "QtypeUnknown",
	},
}
